// SPDX-License-Identifier: MPL-2.0

package invoke

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"foldrun-cli/internal/backend"
	"foldrun-cli/pkg/types"
)

// stubEngine is a fixed-prefix engine so vectors do not depend on what is
// installed on the test host.
type stubEngine struct{ name string }

func (e *stubEngine) Name() string                                { return e.name }
func (e *stubEngine) Available() bool                             { return true }
func (e *stubEngine) Version(ctx context.Context) (string, error) { return "stub 1.0", nil }
func (e *stubEngine) ExecPrefix() []string                        { return []string{e.name, "exec", "--nv"} }

func TestContainerBuildBoltz(t *testing.T) {
	dir := t.TempDir()
	inDir := fixtureDir(t, filepath.Join(dir, "data"))
	input := fixtureFile(t, filepath.Join(inDir.String(), "run.yaml"))
	output := fixtureDir(t, filepath.Join(dir, "out"))
	image := fixtureFile(t, filepath.Join(dir, "boltz.sif"))

	req := testRequest(t, "boltz", map[backend.Role]types.FilesystemPath{
		backend.RoleInput:  input,
		backend.RoleOutput: output,
	})
	req.ContainerImage = image

	b := NewContainerBuilder(&stubEngine{name: "singularity"})

	vec, err := b.Build(req)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	want := CommandVector{
		"singularity", "exec", "--nv",
		"--bind", resolvedPath(t, inDir) + ":/input",
		"--bind", resolvedPath(t, output) + ":/output",
		resolvedPath(t, image),
		"boltz", "predict", "/input/run.yaml",
		"--out_dir", "/output",
		"--override", "--write_full_pae", "--write_full_pde",
		"--diffusion_samples", "5",
		"--recycling_steps", "10",
		"--seed", "42",
	}
	if !reflect.DeepEqual(vec, want) {
		t.Errorf("Build() =\n  %v\nwant\n  %v", vec, want)
	}
}

func TestContainerBuildChaiOmitsAbsentOptions(t *testing.T) {
	dir := t.TempDir()
	inDir := fixtureDir(t, filepath.Join(dir, "data"))
	input := fixtureFile(t, filepath.Join(inDir.String(), "run.fasta"))
	output := fixtureDir(t, filepath.Join(dir, "out"))
	image := fixtureFile(t, filepath.Join(dir, "chai.sif"))

	req := testRequest(t, "chai", map[backend.Role]types.FilesystemPath{
		backend.RoleInput:  input,
		backend.RoleOutput: output,
		// Nonexistent on disk: no flag, no bind.
		backend.RoleConstraints: types.FilesystemPath(filepath.Join(dir, "missing.json")),
	})
	req.ContainerImage = image

	b := NewContainerBuilder(&stubEngine{name: "apptainer"})

	vec, err := b.Build(req)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	want := CommandVector{
		"apptainer", "exec", "--nv",
		"--bind", resolvedPath(t, inDir) + ":/input",
		"--bind", resolvedPath(t, output) + ":/output",
		resolvedPath(t, image),
		"chai-lab", "fold", "/input/run.fasta",
		"--num-diffn-samples", "5",
		"--num-trunk-recycles", "10",
		"--seed", "42",
		"/output",
	}
	if !reflect.DeepEqual(vec, want) {
		t.Errorf("Build() =\n  %v\nwant\n  %v", vec, want)
	}
}

func TestContainerBuildChaiWithOptionalRoles(t *testing.T) {
	dir := t.TempDir()
	inDir := fixtureDir(t, filepath.Join(dir, "data"))
	input := fixtureFile(t, filepath.Join(inDir.String(), "run.fasta"))
	output := fixtureDir(t, filepath.Join(dir, "out"))
	msa := fixtureDir(t, filepath.Join(dir, "msas"))
	cstDir := fixtureDir(t, filepath.Join(dir, "cst"))
	constraints := fixtureFile(t, filepath.Join(cstDir.String(), "constraints.json"))
	image := fixtureFile(t, filepath.Join(dir, "chai.sif"))

	req := testRequest(t, "chai", map[backend.Role]types.FilesystemPath{
		backend.RoleInput:       input,
		backend.RoleOutput:      output,
		backend.RoleMSA:         msa,
		backend.RoleConstraints: constraints,
	})
	req.ContainerImage = image

	b := NewContainerBuilder(&stubEngine{name: "apptainer"})

	vec, err := b.Build(req)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	want := CommandVector{
		"apptainer", "exec", "--nv",
		"--bind", resolvedPath(t, inDir) + ":/input",
		"--bind", resolvedPath(t, output) + ":/output",
		"--bind", resolvedPath(t, msa) + ":/msa",
		"--bind", resolvedPath(t, cstDir) + ":/constraints",
		resolvedPath(t, image),
		"chai-lab", "fold", "/input/run.fasta",
		"--msa-directory", "/msa",
		"--constraint-path", "/constraints/constraints.json",
		"--num-diffn-samples", "5",
		"--num-trunk-recycles", "10",
		"--seed", "42",
		"/output",
	}
	if !reflect.DeepEqual(vec, want) {
		t.Errorf("Build() =\n  %v\nwant\n  %v", vec, want)
	}
}

func TestContainerImageMissing(t *testing.T) {
	dir := t.TempDir()

	req := testRequest(t, "boltz", map[backend.Role]types.FilesystemPath{
		// Nonexistent inputs too: the image check must fire first.
		backend.RoleInput:  types.FilesystemPath(filepath.Join(dir, "nope.yaml")),
		backend.RoleOutput: types.FilesystemPath(filepath.Join(dir, "noout")),
	})
	req.ContainerImage = types.FilesystemPath(filepath.Join(dir, "missing.sif"))

	b := NewContainerBuilder(&stubEngine{name: "apptainer"})

	if err := b.Available(req); !errors.Is(err, backend.ErrContainerImageNotFound) {
		t.Errorf("Available() = %v, want ErrContainerImageNotFound", err)
	}

	_, err := b.Build(req)
	if !errors.Is(err, backend.ErrContainerImageNotFound) {
		t.Fatalf("Build() = %v, want ErrContainerImageNotFound", err)
	}
	var imgErr *backend.ContainerImageNotFoundError
	if !errors.As(err, &imgErr) {
		t.Fatalf("Build() = %T, want ContainerImageNotFoundError", err)
	}
	if imgErr.Backend != "boltz" {
		t.Errorf("Backend = %q, want boltz", imgErr.Backend)
	}
}

func TestContainerBuildSmoke(t *testing.T) {
	dir := t.TempDir()
	image := fixtureFile(t, filepath.Join(dir, "chai.sif"))

	req := testRequest(t, "chai", nil)
	req.ContainerImage = image

	b := NewContainerBuilder(&stubEngine{name: "apptainer"})

	vec, err := b.BuildSmoke(req)
	if err != nil {
		t.Fatalf("BuildSmoke() error: %v", err)
	}
	want := CommandVector{
		"apptainer", "exec", "--nv",
		resolvedPath(t, image),
		"chai-lab", "fold", "--help",
	}
	if !reflect.DeepEqual(vec, want) {
		t.Errorf("BuildSmoke() = %v, want %v", vec, want)
	}
}

func TestForRequestSelectsStrategy(t *testing.T) {
	req := testRequest(t, "boltz", nil)

	b, err := ForRequest(req, "apptainer")
	if err != nil {
		t.Fatalf("ForRequest() error: %v", err)
	}
	if b.Name() != "direct" {
		t.Errorf("ForRequest().Name() = %q, want direct for a zero image", b.Name())
	}
}
