// SPDX-License-Identifier: MPL-2.0

package invoke

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"foldrun-cli/internal/backend"
	"foldrun-cli/pkg/types"
)

// installTools returns a PATH probe stub where only the named tools resolve.
func installTools(tools ...string) LookPathFunc {
	return func(file string) (string, error) {
		for _, name := range tools {
			if file == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", file)
	}
}

func testRequest(t *testing.T, name string, paths map[backend.Role]types.FilesystemPath) *backend.ExecutionRequest {
	t.Helper()
	spec, err := backend.Get(name)
	if err != nil {
		t.Fatalf("Get(%q): %v", name, err)
	}
	req := backend.NewRequest(spec)
	for role, p := range paths {
		req.Paths[role] = p
	}
	return req
}

func fixtureFile(t *testing.T, path string) types.FilesystemPath {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
	return types.FilesystemPath(path)
}

func fixtureDir(t *testing.T, path string) types.FilesystemPath {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("creating fixture %s: %v", path, err)
	}
	return types.FilesystemPath(path)
}

func resolvedPath(t *testing.T, p types.FilesystemPath) string {
	t.Helper()
	abs, err := filepath.Abs(p.String())
	if err != nil {
		t.Fatalf("abs %s: %v", p, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		t.Fatalf("evalsymlinks %s: %v", abs, err)
	}
	return real
}

func TestDirectBuildBoltz(t *testing.T) {
	dir := t.TempDir()
	input := fixtureFile(t, filepath.Join(dir, "run.yaml"))
	output := fixtureDir(t, filepath.Join(dir, "out"))

	req := testRequest(t, "boltz", map[backend.Role]types.FilesystemPath{
		backend.RoleInput:  input,
		backend.RoleOutput: output,
	})

	b := NewDirectBuilder()
	b.lookPath = installTools("boltz")

	vec, err := b.Build(req)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	want := CommandVector{
		"boltz", "predict", resolvedPath(t, input),
		"--out_dir", resolvedPath(t, output),
		"--override", "--write_full_pae", "--write_full_pde",
		"--diffusion_samples", "5",
		"--recycling_steps", "10",
		"--seed", "42",
	}
	if !reflect.DeepEqual(vec, want) {
		t.Errorf("Build() =\n  %v\nwant\n  %v", vec, want)
	}
}

func TestDirectBuildChaiOmitsAbsentOptions(t *testing.T) {
	dir := t.TempDir()
	input := fixtureFile(t, filepath.Join(dir, "run.fasta"))
	output := fixtureDir(t, filepath.Join(dir, "out"))

	req := testRequest(t, "chai", map[backend.Role]types.FilesystemPath{
		backend.RoleInput:  input,
		backend.RoleOutput: output,
		// Present in the request but absent on disk: must be dropped silently.
		backend.RoleConstraints: types.FilesystemPath(filepath.Join(dir, "missing.json")),
	})

	b := NewDirectBuilder()
	b.lookPath = installTools("chai-lab", "kalign")

	vec, err := b.Build(req)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	want := CommandVector{
		"chai-lab", "fold", resolvedPath(t, input),
		"--num-diffn-samples", "5",
		"--num-trunk-recycles", "10",
		"--seed", "42",
		resolvedPath(t, output),
	}
	if !reflect.DeepEqual(vec, want) {
		t.Errorf("Build() =\n  %v\nwant\n  %v", vec, want)
	}
}

func TestDirectBuildChaiWithAllOptions(t *testing.T) {
	dir := t.TempDir()
	input := fixtureFile(t, filepath.Join(dir, "run.fasta"))
	output := fixtureDir(t, filepath.Join(dir, "out"))
	msa := fixtureDir(t, filepath.Join(dir, "msas"))
	constraints := fixtureFile(t, filepath.Join(dir, "constraints.json"))
	templates := fixtureFile(t, filepath.Join(dir, "hits.m8"))

	req := testRequest(t, "chai", map[backend.Role]types.FilesystemPath{
		backend.RoleInput:       input,
		backend.RoleOutput:      output,
		backend.RoleMSA:         msa,
		backend.RoleConstraints: constraints,
		backend.RoleTemplates:   templates,
	})
	req.Samples = 3
	req.Recycles = 2
	req.Seed = 7

	b := NewDirectBuilder()
	b.lookPath = installTools("chai-lab", "kalign")

	vec, err := b.Build(req)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	want := CommandVector{
		"chai-lab", "fold", resolvedPath(t, input),
		"--msa-directory", resolvedPath(t, msa),
		"--constraint-path", resolvedPath(t, constraints),
		"--num-diffn-samples", "3",
		"--num-trunk-recycles", "2",
		"--seed", "7",
		"--template-hits-path", resolvedPath(t, templates),
		resolvedPath(t, output),
	}
	if !reflect.DeepEqual(vec, want) {
		t.Errorf("Build() =\n  %v\nwant\n  %v", vec, want)
	}
}

func TestDirectBuildSuppressesTemplatesWithoutAligner(t *testing.T) {
	dir := t.TempDir()
	input := fixtureFile(t, filepath.Join(dir, "run.fasta"))
	output := fixtureDir(t, filepath.Join(dir, "out"))
	templates := fixtureFile(t, filepath.Join(dir, "hits.m8"))

	req := testRequest(t, "chai", map[backend.Role]types.FilesystemPath{
		backend.RoleInput:     input,
		backend.RoleOutput:    output,
		backend.RoleTemplates: templates,
	})

	// kalign is not installed: template options must be omitted, not fail.
	b := NewDirectBuilder()
	b.lookPath = installTools("chai-lab")

	vec, err := b.Build(req)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	for _, tok := range vec {
		if tok == "--template-hits-path" {
			t.Errorf("Build() emitted template options without kalign: %v", vec)
		}
	}
}

func TestDirectAvailable(t *testing.T) {
	req := testRequest(t, "boltz", nil)

	b := NewDirectBuilder()
	b.lookPath = installTools("boltz")
	if err := b.Available(req); err != nil {
		t.Errorf("Available() = %v with boltz on PATH", err)
	}

	b.lookPath = installTools()
	err := b.Available(req)
	if !errors.Is(err, backend.ErrBackendNotInstalled) {
		t.Errorf("Available() = %v, want ErrBackendNotInstalled", err)
	}
	var notInstalled *backend.BackendNotInstalledError
	if !errors.As(err, &notInstalled) {
		t.Fatalf("Available() = %T, want BackendNotInstalledError", err)
	}
	if notInstalled.Executable != "boltz" {
		t.Errorf("Executable = %q, want boltz", notInstalled.Executable)
	}
}

func TestDirectBuildIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	input := fixtureFile(t, filepath.Join(dir, "run.yaml"))
	output := fixtureDir(t, filepath.Join(dir, "out"))

	req := testRequest(t, "boltz", map[backend.Role]types.FilesystemPath{
		backend.RoleInput:  input,
		backend.RoleOutput: output,
	})

	b := NewDirectBuilder()
	b.lookPath = installTools("boltz")

	first, err := b.Build(req)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	second, err := b.Build(req)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated builds differ:\n  %v\n  %v", first, second)
	}
}

func TestDirectBuildSmoke(t *testing.T) {
	req := testRequest(t, "chai", nil)

	b := NewDirectBuilder()
	vec, err := b.BuildSmoke(req)
	if err != nil {
		t.Fatalf("BuildSmoke() error: %v", err)
	}
	want := CommandVector{"chai-lab", "fold", "--help"}
	if !reflect.DeepEqual(vec, want) {
		t.Errorf("BuildSmoke() = %v, want %v", vec, want)
	}
}
