// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"errors"
	"fmt"
	"testing"
)

// withInstalledEngines stubs PATH lookups so only the named engines appear installed.
func withInstalledEngines(t *testing.T, installed ...string) {
	t.Helper()
	orig := lookPath
	lookPath = func(file string) (string, error) {
		for _, name := range installed {
			if file == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", file)
	}
	t.Cleanup(func() { lookPath = orig })
}

func TestNewEngine(t *testing.T) {
	tests := []struct {
		name      string
		preferred EngineType
		installed []string
		wantName  string
		wantErr   bool
	}{
		{
			name:      "preferred apptainer available",
			preferred: EngineTypeApptainer,
			installed: []string{"apptainer", "singularity"},
			wantName:  "apptainer",
		},
		{
			name:      "apptainer preferred, only singularity installed",
			preferred: EngineTypeApptainer,
			installed: []string{"singularity"},
			wantName:  "singularity",
		},
		{
			name:      "singularity preferred, only apptainer installed",
			preferred: EngineTypeSingularity,
			installed: []string{"apptainer"},
			wantName:  "apptainer",
		},
		{
			name:      "singularity preferred and available",
			preferred: EngineTypeSingularity,
			installed: []string{"apptainer", "singularity"},
			wantName:  "singularity",
		},
		{
			name:      "neither engine installed",
			preferred: EngineTypeApptainer,
			installed: nil,
			wantErr:   true,
		},
		{
			name:      "unknown engine type",
			preferred: EngineType("docker"),
			installed: []string{"apptainer"},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withInstalledEngines(t, tt.installed...)

			eng, err := NewEngine(tt.preferred)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewEngine(%q) error = %v, wantErr %v", tt.preferred, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if eng.Name() != tt.wantName {
				t.Errorf("NewEngine(%q).Name() = %q, want %q", tt.preferred, eng.Name(), tt.wantName)
			}
		})
	}
}

func TestNewEngineErrorType(t *testing.T) {
	withInstalledEngines(t)

	_, err := NewEngine(EngineTypeApptainer)
	var notAvail *ErrEngineNotAvailable
	if !errors.As(err, &notAvail) {
		t.Fatalf("NewEngine() error = %T, want *ErrEngineNotAvailable", err)
	}
}

func TestAutoDetectEnginePrefersApptainer(t *testing.T) {
	withInstalledEngines(t, "apptainer", "singularity")

	eng, err := AutoDetectEngine()
	if err != nil {
		t.Fatalf("AutoDetectEngine() error: %v", err)
	}
	if eng.Name() != "apptainer" {
		t.Errorf("AutoDetectEngine().Name() = %q, want apptainer", eng.Name())
	}
}

func TestAutoDetectEngineFallsBack(t *testing.T) {
	withInstalledEngines(t, "singularity")

	eng, err := AutoDetectEngine()
	if err != nil {
		t.Fatalf("AutoDetectEngine() error: %v", err)
	}
	if eng.Name() != "singularity" {
		t.Errorf("AutoDetectEngine().Name() = %q, want singularity", eng.Name())
	}
}

func TestAutoDetectEngineNoneInstalled(t *testing.T) {
	withInstalledEngines(t)

	if _, err := AutoDetectEngine(); err == nil {
		t.Fatal("AutoDetectEngine() succeeded with no engine installed")
	}
}

func TestExecPrefix(t *testing.T) {
	tests := []struct {
		eng  Engine
		want []string
	}{
		{NewApptainerEngine(), []string{"apptainer", "exec", "--nv"}},
		{NewSingularityEngine(), []string{"singularity", "exec", "--nv"}},
	}

	for _, tt := range tests {
		got := tt.eng.ExecPrefix()
		if len(got) != len(tt.want) {
			t.Fatalf("ExecPrefix() = %v, want %v", got, tt.want)
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("ExecPrefix()[%d] = %q, want %q", i, got[i], tt.want[i])
			}
		}
	}
}
