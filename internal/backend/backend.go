// SPDX-License-Identifier: MPL-2.0

package backend

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	// ModeDirect executes the backend's natively installed executable.
	ModeDirect Mode = "direct"
	// ModeContainer executes the backend inside an Apptainer/Singularity image.
	ModeContainer Mode = "container"

	// RoleInput is the primary input file (YAML/FASTA produced upstream).
	RoleInput Role = "input"
	// RoleOutput is the directory predictions are written to.
	RoleOutput Role = "output"
	// RoleMSA is the directory holding precomputed multi-sequence alignments.
	RoleMSA Role = "msa"
	// RoleConstraints is the constraints file restricting the fold.
	RoleConstraints Role = "constraints"
	// RoleTemplates is the template hits (.m8) file.
	RoleTemplates Role = "templates"

	// FeatureTemplatesServer asks the backend to fetch templates from a remote server.
	FeatureTemplatesServer Feature = "use-templates-server"
)

type (
	// Mode identifies the execution strategy selected for an invocation.
	Mode string

	// Role names a logical filesystem location a backend consumes or produces.
	// Each role maps to a fixed canonical mount point in container mode.
	Role string

	// Feature names an optional boolean capability a backend grammar may expose.
	Feature string

	// SlotKind discriminates the argument slot variants of a grammar table.
	SlotKind int

	// ArgSlot is one ordered entry in a backend's argument grammar. The slot
	// order in BackendSpec.Args is the order tokens are emitted, identical in
	// direct and container mode; only path rendering differs between the two.
	ArgSlot struct {
		Kind SlotKind
		// Flag is the flag token preceding the value, where the slot takes one.
		Flag string
		// Role is the filesystem role for path-valued slots.
		Role Role
		// Param selects the numeric request parameter for SlotNumeric.
		Param NumericParam
		// Feature selects the boolean request feature for SlotFeature.
		Feature Feature
	}

	// NumericParam selects one of the numeric fields of an ExecutionRequest.
	NumericParam int

	// BackendSpec is the immutable description of one prediction tool: its
	// executable tokens, probe, filesystem roles, and argument grammar.
	// Specs are created once at package init and shared read-only.
	BackendSpec struct {
		// Name is the unique backend identifier (e.g. "boltz", "chai").
		Name string
		// DirectCommand is the native executable argument template.
		DirectCommand []string
		// ContainerCommand is the entrypoint argument template inside the image.
		ContainerCommand []string
		// Probe is the executable looked up on PATH for the direct-mode
		// installation check.
		Probe string
		// RequiredRoles are the roles that must be present (and exist on the
		// host) in every request for this backend.
		RequiredRoles []Role
		// OptionalRoles are roles that are silently omitted when the request
		// carries no existing host path for them.
		OptionalRoles []Role
		// Args is the ordered argument grammar emitted after the command tokens.
		Args []ArgSlot
		// Features lists the optional boolean capabilities this grammar can express.
		Features []Feature
		// TemplateAlignProbe, when set, names an executable (e.g. "kalign")
		// that direct mode needs before template options may be emitted.
		TemplateAlignProbe string
		// SeedScopedOutput makes the pipeline give each seed its own
		// subdirectory under the requested output directory.
		SeedScopedOutput bool
		// OOMPattern, when set, marks a run as failed if the pattern appears
		// in the tool's stdout even though it exited zero.
		OOMPattern string
	}
)

const (
	// SlotInput is the required input file, rendered as a positional argument.
	SlotInput SlotKind = iota
	// SlotOutputFlag is the output directory, rendered as Flag + path.
	SlotOutputFlag
	// SlotOutputTrailing is the output directory, rendered as the final positional.
	SlotOutputTrailing
	// SlotFixed is a literal token that is always emitted.
	SlotFixed
	// SlotAuxPath is an optional path role, rendered as Flag + path and
	// omitted entirely when the role is absent from the mount plan.
	SlotAuxPath
	// SlotNumeric is a numeric parameter, rendered as Flag + base-10 value.
	SlotNumeric
	// SlotFeature is a boolean feature flag, emitted only when requested.
	SlotFeature
)

const (
	// ParamSamples is the diffusion sample count.
	ParamSamples NumericParam = iota
	// ParamRecycles is the recycling/trunk-recycle step count.
	ParamRecycles
	// ParamSeed is the random seed.
	ParamSeed
)

// containerTargets are the canonical in-container mount points per role.
// These are fixed literals: previously built images rely on them, so
// backend-specific grammar extensions must never remap them.
var containerTargets = map[Role]string{
	RoleInput:       "/input",
	RoleOutput:      "/output",
	RoleMSA:         "/msa",
	RoleConstraints: "/constraints",
	RoleTemplates:   "/templates",
}

// dirRoles marks roles whose host path names a directory; all other roles name
// files, for which the parent directory is bound in container mode.
var dirRoles = map[Role]bool{
	RoleOutput: true,
	RoleMSA:    true,
}

// ContainerTarget returns the canonical container-side mount point for a role.
func (r Role) ContainerTarget() string {
	return containerTargets[r]
}

// IsDir reports whether the role's host path names a directory rather than a file.
func (r Role) IsDir() bool {
	return dirRoles[r]
}

// Supports reports whether the backend's grammar can express the feature.
func (s *BackendSpec) Supports(f Feature) bool {
	return slices.Contains(s.Features, f)
}

// Roles returns the backend's roles, required first, in declaration order.
func (s *BackendSpec) Roles() []Role {
	out := make([]Role, 0, len(s.RequiredRoles)+len(s.OptionalRoles))
	out = append(out, s.RequiredRoles...)
	out = append(out, s.OptionalRoles...)
	return out
}

// IsRequired reports whether the role must be present in every request.
func (s *BackendSpec) IsRequired(r Role) bool {
	return slices.Contains(s.RequiredRoles, r)
}

// registry holds all known backend specs, keyed by name. Populated at init,
// read-only afterwards.
var registry = map[string]*BackendSpec{}

func register(s *BackendSpec) {
	if _, dup := registry[s.Name]; dup {
		panic(fmt.Sprintf("backend %q registered twice", s.Name))
	}
	registry[s.Name] = s
}

// Get returns the spec for a backend name.
func Get(name string) (*BackendSpec, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return s, nil
}

// Names returns all registered backend names, sorted.
func Names() []string {
	names := maps.Keys(registry)
	slices.Sort(names)
	return names
}
