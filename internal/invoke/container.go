// SPDX-License-Identifier: MPL-2.0

package invoke

import (
	"os"

	"foldrun-cli/internal/backend"
	"foldrun-cli/internal/engine"
	"foldrun-cli/internal/mount"
	"foldrun-cli/pkg/fspath"
	"foldrun-cli/pkg/types"
)

// statFunc is swapped in tests to simulate missing images.
var statFunc = os.Stat

// ContainerBuilder emits a container-runtime invocation: the engine prefix,
// one --bind pair per mount plan entry, the image reference, then the
// backend's grammar with every path replaced by its container-side logical
// path, never the host path.
type ContainerBuilder struct {
	engine engine.Engine
}

// NewContainerBuilder creates a container-mode builder over a resolved engine.
func NewContainerBuilder(eng engine.Engine) *ContainerBuilder {
	return &ContainerBuilder{engine: eng}
}

// Name returns the strategy name.
func (b *ContainerBuilder) Name() string { return string(backend.ModeContainer) }

// Available checks only that the image file exists: the container's internal
// installation is trusted, not probed.
func (b *ContainerBuilder) Available(req *backend.ExecutionRequest) error {
	_, err := b.resolveImage(req)
	return err
}

// Validate checks grammar expressibility for the request.
func (b *ContainerBuilder) Validate(req *backend.ExecutionRequest) error {
	return req.Validate()
}

// Build verifies the image, resolves the mount plan, and emits the wrapped
// invocation. The image check runs before any mounts are built.
func (b *ContainerBuilder) Build(req *backend.ExecutionRequest) (CommandVector, error) {
	if err := b.Validate(req); err != nil {
		return nil, err
	}

	image, err := b.resolveImage(req)
	if err != nil {
		return nil, err
	}

	plan, err := mount.Resolve(req)
	if err != nil {
		return nil, err
	}

	vec := CommandVector(b.engine.ExecPrefix())
	for _, bind := range plan.Binds() {
		vec = append(vec, "--bind", bind.Host.String()+":"+bind.Target)
	}
	vec = append(vec, image.String())
	vec = append(vec, req.Backend.ContainerCommand...)
	return appendGrammar(vec, req, containerRenderer(plan), false), nil
}

// BuildSmoke emits `<engine> exec --nv <image> <tool> --help`. No mounts are
// needed for --help, only the image reference.
func (b *ContainerBuilder) BuildSmoke(req *backend.ExecutionRequest) (CommandVector, error) {
	image, err := b.resolveImage(req)
	if err != nil {
		return nil, err
	}
	vec := CommandVector(b.engine.ExecPrefix())
	vec = append(vec, image.String())
	vec = append(vec, req.Backend.ContainerCommand...)
	return append(vec, "--help"), nil
}

// resolveImage normalizes the image path and fails with
// ContainerImageNotFoundError when it does not exist on the host.
func (b *ContainerBuilder) resolveImage(req *backend.ExecutionRequest) (types.FilesystemPath, error) {
	abs, err := fspath.Abs(req.ContainerImage)
	if err != nil {
		return "", &backend.ContainerImageNotFoundError{Backend: req.Backend.Name, Image: req.ContainerImage}
	}
	if _, err := statFunc(abs.String()); err != nil {
		return "", &backend.ContainerImageNotFoundError{Backend: req.Backend.Name, Image: abs}
	}
	resolved, err := fspath.EvalSymlinks(abs)
	if err != nil {
		return "", &backend.ContainerImageNotFoundError{Backend: req.Backend.Name, Image: abs}
	}
	return resolved, nil
}
