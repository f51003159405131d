// SPDX-License-Identifier: MPL-2.0

package invoke

import (
	"strconv"

	"foldrun-cli/internal/backend"
	"foldrun-cli/internal/engine"
	"foldrun-cli/internal/mount"
)

// Builder is the execution strategy interface: given an ExecutionRequest it
// produces a ready-to-spawn CommandVector, or explains why it never will.
type Builder interface {
	// Name returns the strategy name ("direct" or "container").
	Name() string
	// Available reports whether the backend can be invoked at all in this
	// mode. It is a pure read, expected to run once per backend per pipeline
	// invocation, before any command is built.
	Available(req *backend.ExecutionRequest) error
	// Validate checks that the request is expressible in the backend's
	// grammar without touching the filesystem beyond what Available did.
	Validate(req *backend.ExecutionRequest) error
	// Build produces the ordered argument vector. It fails rather than emit
	// a partially valid command.
	Build(req *backend.ExecutionRequest) (CommandVector, error)
	// BuildSmoke produces a cheap `--help` invocation used to sanity-check
	// the installation without running a prediction.
	BuildSmoke(req *backend.ExecutionRequest) (CommandVector, error)
}

// ForRequest selects the strategy for a request: container when an image path
// is supplied, direct otherwise. The container strategy resolves its engine
// with preference pref, falling back per engine.NewEngine.
func ForRequest(req *backend.ExecutionRequest, pref engine.EngineType) (Builder, error) {
	if req.Mode() == backend.ModeDirect {
		return NewDirectBuilder(), nil
	}
	eng, err := engine.NewEngine(pref)
	if err != nil {
		return nil, err
	}
	return NewContainerBuilder(eng), nil
}

// pathRenderer returns the token for a role's path in the current mode.
type pathRenderer func(role backend.Role) (string, bool)

// appendGrammar walks the backend's argument slots in table order and appends
// the rendered tokens. Both strategies funnel through here, which is what
// keeps flag ordering observably identical between modes. When
// suppressTemplates is set, template-related slots are skipped (direct-mode
// kalign guard).
func appendGrammar(vec CommandVector, req *backend.ExecutionRequest, pathFor pathRenderer, suppressTemplates bool) CommandVector {
	for _, slot := range req.Backend.Args {
		switch slot.Kind {
		case backend.SlotInput, backend.SlotOutputTrailing:
			if p, ok := pathFor(slot.Role); ok {
				vec = append(vec, p)
			}
		case backend.SlotOutputFlag:
			if p, ok := pathFor(slot.Role); ok {
				vec = append(vec, slot.Flag, p)
			}
		case backend.SlotFixed:
			vec = append(vec, slot.Flag)
		case backend.SlotAuxPath:
			if suppressTemplates && slot.Role == backend.RoleTemplates {
				continue
			}
			if p, ok := pathFor(slot.Role); ok {
				vec = append(vec, slot.Flag, p)
			}
		case backend.SlotNumeric:
			vec = append(vec, slot.Flag, strconv.Itoa(numericValue(req, slot.Param)))
		case backend.SlotFeature:
			if suppressTemplates && slot.Feature == backend.FeatureTemplatesServer {
				continue
			}
			if featureRequested(req, slot.Feature) {
				vec = append(vec, slot.Flag)
			}
		}
	}
	return vec
}

// numericValue selects the request field for a numeric slot. Values are
// rendered base-10 by the caller; no locale-specific formatting.
func numericValue(req *backend.ExecutionRequest, p backend.NumericParam) int {
	switch p {
	case backend.ParamSamples:
		return req.Samples
	case backend.ParamRecycles:
		return req.Recycles
	case backend.ParamSeed:
		return req.Seed
	}
	return 0
}

func featureRequested(req *backend.ExecutionRequest, f backend.Feature) bool {
	switch f {
	case backend.FeatureTemplatesServer:
		return req.UseTemplatesServer
	}
	return false
}

// hostRenderer renders role paths as normalized host paths (direct mode).
func hostRenderer(plan *mount.MountPlan) pathRenderer {
	return func(role backend.Role) (string, bool) {
		p, ok := plan.HostPath(role)
		return p.String(), ok
	}
}

// containerRenderer renders role paths as canonical container paths; the host
// path never leaks into a container-mode vector.
func containerRenderer(plan *mount.MountPlan) pathRenderer {
	return func(role backend.Role) (string, bool) {
		return plan.ContainerPath(role)
	}
}
