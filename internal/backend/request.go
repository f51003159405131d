// SPDX-License-Identifier: MPL-2.0

package backend

import (
	"foldrun-cli/pkg/types"
)

// Default numeric parameters, matching the upstream prediction tools.
const (
	// DefaultSamples is the default number of models to generate.
	DefaultSamples = 5
	// DefaultRecycles is the default number of recycling steps.
	DefaultRecycles = 10
	// DefaultSeed is the default random seed.
	DefaultSeed = 42
)

// ExecutionRequest is the per-invocation value handed to the command builders.
// It is owned exclusively by the call that constructs it and discarded after
// the command vector is built; nothing here is shared or mutated concurrently.
type ExecutionRequest struct {
	// Backend is the spec this request targets.
	Backend *BackendSpec
	// Paths maps each role to its host path. Optional roles may be absent.
	Paths map[Role]types.FilesystemPath
	// Samples is the number of models to generate.
	Samples int
	// Recycles is the number of recycling steps.
	Recycles int
	// Seed is the random seed.
	Seed int
	// UseTemplatesServer asks the backend to fetch templates remotely.
	UseTemplatesServer bool
	// ContainerImage is the .sif image path; the zero value selects direct mode.
	ContainerImage types.FilesystemPath
}

// NewRequest creates a request for a backend with the default numeric parameters.
func NewRequest(spec *BackendSpec) *ExecutionRequest {
	return &ExecutionRequest{
		Backend:  spec,
		Paths:    make(map[Role]types.FilesystemPath),
		Samples:  DefaultSamples,
		Recycles: DefaultRecycles,
		Seed:     DefaultSeed,
	}
}

// Mode returns the execution mode selected by the request: container when an
// image path is supplied, direct otherwise.
func (r *ExecutionRequest) Mode() Mode {
	if r.ContainerImage.IsZero() {
		return ModeDirect
	}
	return ModeContainer
}

// Path returns the host path for a role and whether the request carries one.
func (r *ExecutionRequest) Path(role Role) (types.FilesystemPath, bool) {
	p, ok := r.Paths[role]
	if !ok || p.IsZero() {
		return "", false
	}
	return p, true
}

// Validate checks that every backend-required role is present in the request.
// Host existence is checked later by the path translator; this only rejects
// requests that could never resolve.
func (r *ExecutionRequest) Validate() error {
	for _, role := range r.Backend.RequiredRoles {
		if _, ok := r.Path(role); !ok {
			return &MissingInputError{
				Backend: r.Backend.Name,
				Role:    role,
				Mode:    r.Mode(),
			}
		}
	}
	if r.UseTemplatesServer && !r.Backend.Supports(FeatureTemplatesServer) {
		return &UnsupportedBackendGrammarError{
			Backend: r.Backend.Name,
			Option:  string(FeatureTemplatesServer),
		}
	}
	if r.UseTemplatesServer {
		if _, ok := r.Path(RoleTemplates); ok {
			return &UnsupportedBackendGrammarError{
				Backend: r.Backend.Name,
				Option:  string(FeatureTemplatesServer),
				Reason:  "cannot combine a templates server with a local template hits file",
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the request. The pipeline uses this to derive
// per-seed invocations without mutating the caller's value.
func (r *ExecutionRequest) Clone() *ExecutionRequest {
	dup := *r
	dup.Paths = make(map[Role]types.FilesystemPath, len(r.Paths))
	for k, v := range r.Paths {
		dup.Paths[k] = v
	}
	return &dup
}
