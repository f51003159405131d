// SPDX-License-Identifier: MPL-2.0

package invoke

import (
	"os/exec"

	"github.com/charmbracelet/log"

	"foldrun-cli/internal/backend"
	"foldrun-cli/internal/mount"
)

// LookPathFunc is the function signature for PATH probes.
// This allows injection of mock implementations for testing.
type LookPathFunc func(file string) (string, error)

// DirectBuilder emits the backend's native executable followed by its fixed
// grammar, using host-resolved absolute paths directly.
type DirectBuilder struct {
	lookPath LookPathFunc
	logger   *log.Logger
}

// NewDirectBuilder creates a direct-mode builder.
func NewDirectBuilder() *DirectBuilder {
	return &DirectBuilder{
		lookPath: exec.LookPath,
		logger:   log.Default(),
	}
}

// Name returns the strategy name.
func (b *DirectBuilder) Name() string { return string(backend.ModeDirect) }

// Available probes the backend's executable on PATH. The probe trusts PATH
// resolution only; it does not execute the tool.
func (b *DirectBuilder) Available(req *backend.ExecutionRequest) error {
	if _, err := b.lookPath(req.Backend.Probe); err != nil {
		return &backend.BackendNotInstalledError{
			Backend:    req.Backend.Name,
			Executable: req.Backend.Probe,
		}
	}
	return nil
}

// Validate checks grammar expressibility for the request.
func (b *DirectBuilder) Validate(req *backend.ExecutionRequest) error {
	return req.Validate()
}

// Build resolves the request's paths and emits the native invocation.
func (b *DirectBuilder) Build(req *backend.ExecutionRequest) (CommandVector, error) {
	if err := b.Validate(req); err != nil {
		return nil, err
	}

	plan, err := mount.Resolve(req)
	if err != nil {
		return nil, err
	}

	vec := CommandVector(append([]string{}, req.Backend.DirectCommand...))
	return appendGrammar(vec, req, hostRenderer(plan), b.suppressTemplates(req, plan)), nil
}

// BuildSmoke emits `<tool> --help` for an installation sanity check.
func (b *DirectBuilder) BuildSmoke(req *backend.ExecutionRequest) (CommandVector, error) {
	vec := CommandVector(append([]string{}, req.Backend.DirectCommand...))
	return append(vec, "--help"), nil
}

// suppressTemplates implements the direct-mode template alignment guard: when
// the backend needs an aligner (kalign) for template options and it is not on
// PATH, the template flags are omitted with a warning rather than producing a
// command that fails mid-run.
func (b *DirectBuilder) suppressTemplates(req *backend.ExecutionRequest, plan *mount.MountPlan) bool {
	if req.Backend.TemplateAlignProbe == "" {
		return false
	}
	if !req.UseTemplatesServer && !plan.Has(backend.RoleTemplates) {
		return false
	}
	if _, err := b.lookPath(req.Backend.TemplateAlignProbe); err != nil {
		b.logger.Warn("template aligner not found, skipping template options",
			"backend", req.Backend.Name,
			"aligner", req.Backend.TemplateAlignProbe)
		return true
	}
	return false
}
