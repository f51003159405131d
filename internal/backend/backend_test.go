// SPDX-License-Identifier: MPL-2.0

package backend

import (
	"errors"
	"testing"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		wantErr bool
	}{
		{name: "boltz is registered", backend: "boltz"},
		{name: "chai is registered", backend: "chai"},
		{name: "unknown backend", backend: "alphafold", wantErr: true},
		{name: "empty name", backend: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Get(tt.backend)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Get(%q) error = %v, wantErr %v", tt.backend, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownBackend) {
					t.Errorf("Get(%q) error = %v, want ErrUnknownBackend", tt.backend, err)
				}
				return
			}
			if spec.Name != tt.backend {
				t.Errorf("Get(%q).Name = %q", tt.backend, spec.Name)
			}
		})
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 2 {
		t.Fatalf("Names() = %v, want 2 entries", names)
	}
	// Sorted output.
	if names[0] != "boltz" || names[1] != "chai" {
		t.Errorf("Names() = %v, want [boltz chai]", names)
	}
}

func TestRoleContainerTarget(t *testing.T) {
	tests := []struct {
		role   Role
		target string
	}{
		{RoleInput, "/input"},
		{RoleOutput, "/output"},
		{RoleMSA, "/msa"},
		{RoleConstraints, "/constraints"},
		{RoleTemplates, "/templates"},
	}

	for _, tt := range tests {
		if got := tt.role.ContainerTarget(); got != tt.target {
			t.Errorf("Role(%q).ContainerTarget() = %q, want %q", tt.role, got, tt.target)
		}
	}
}

func TestRoleIsDir(t *testing.T) {
	dirs := map[Role]bool{
		RoleInput:       false,
		RoleOutput:      true,
		RoleMSA:         true,
		RoleConstraints: false,
		RoleTemplates:   false,
	}
	for role, want := range dirs {
		if got := role.IsDir(); got != want {
			t.Errorf("Role(%q).IsDir() = %v, want %v", role, got, want)
		}
	}
}

func TestBackendSpecSupports(t *testing.T) {
	boltz, _ := Get("boltz")
	chai, _ := Get("chai")

	if boltz.Supports(FeatureTemplatesServer) {
		t.Error("boltz must not support the templates server feature")
	}
	if !chai.Supports(FeatureTemplatesServer) {
		t.Error("chai must support the templates server feature")
	}
}

func TestBackendSpecRolesOrder(t *testing.T) {
	chai, _ := Get("chai")
	roles := chai.Roles()
	want := []Role{RoleInput, RoleOutput, RoleMSA, RoleConstraints, RoleTemplates}
	if len(roles) != len(want) {
		t.Fatalf("Roles() = %v, want %v", roles, want)
	}
	for i := range want {
		if roles[i] != want[i] {
			t.Errorf("Roles()[%d] = %q, want %q", i, roles[i], want[i])
		}
	}
}

func TestBackendSpecIsRequired(t *testing.T) {
	chai, _ := Get("chai")
	if !chai.IsRequired(RoleInput) || !chai.IsRequired(RoleOutput) {
		t.Error("input and output must be required roles")
	}
	if chai.IsRequired(RoleConstraints) || chai.IsRequired(RoleMSA) || chai.IsRequired(RoleTemplates) {
		t.Error("msa, constraints and templates must be optional roles")
	}
}
