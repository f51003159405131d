// SPDX-License-Identifier: MPL-2.0

package backend

// Boltz consumes a YAML input file and writes models under --out_dir. The
// --override/--write_full_pae/--write_full_pde literals are part of the fixed
// grammar: every run overwrites stale outputs and emits full PAE/PDE matrices
// for downstream scoring.
var boltzSpec = &BackendSpec{
	Name:             "boltz",
	DirectCommand:    []string{"boltz", "predict"},
	ContainerCommand: []string{"boltz", "predict"},
	Probe:            "boltz",
	RequiredRoles:    []Role{RoleInput, RoleOutput},
	Args: []ArgSlot{
		{Kind: SlotInput, Role: RoleInput},
		{Kind: SlotOutputFlag, Flag: "--out_dir", Role: RoleOutput},
		{Kind: SlotFixed, Flag: "--override"},
		{Kind: SlotFixed, Flag: "--write_full_pae"},
		{Kind: SlotFixed, Flag: "--write_full_pde"},
		{Kind: SlotNumeric, Flag: "--diffusion_samples", Param: ParamSamples},
		{Kind: SlotNumeric, Flag: "--recycling_steps", Param: ParamRecycles},
		{Kind: SlotNumeric, Flag: "--seed", Param: ParamSeed},
	},
	// Boltz exits zero after a CUDA OOM, leaving truncated outputs; the run
	// has to be failed from its own stdout.
	OOMPattern: "WARNING: ran out of memory",
}

func init() {
	register(boltzSpec)
}
