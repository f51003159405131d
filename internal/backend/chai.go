// SPDX-License-Identifier: MPL-2.0

package backend

// Chai-1 takes the input FASTA as a positional and the output directory as the
// trailing positional. MSA directory, constraints, and template hits are
// optional roles: when absent on the host they contribute neither a flag nor a
// bind entry. Template options additionally require kalign in direct mode.
var chaiSpec = &BackendSpec{
	Name:             "chai",
	DirectCommand:    []string{"chai-lab", "fold"},
	ContainerCommand: []string{"chai-lab", "fold"},
	Probe:            "chai-lab",
	RequiredRoles:    []Role{RoleInput, RoleOutput},
	OptionalRoles:    []Role{RoleMSA, RoleConstraints, RoleTemplates},
	Args: []ArgSlot{
		{Kind: SlotInput, Role: RoleInput},
		{Kind: SlotAuxPath, Flag: "--msa-directory", Role: RoleMSA},
		{Kind: SlotAuxPath, Flag: "--constraint-path", Role: RoleConstraints},
		{Kind: SlotNumeric, Flag: "--num-diffn-samples", Param: ParamSamples},
		{Kind: SlotNumeric, Flag: "--num-trunk-recycles", Param: ParamRecycles},
		{Kind: SlotNumeric, Flag: "--seed", Param: ParamSeed},
		{Kind: SlotFeature, Flag: "--use-templates-server", Feature: FeatureTemplatesServer},
		{Kind: SlotAuxPath, Flag: "--template-hits-path", Role: RoleTemplates},
		{Kind: SlotOutputTrailing, Role: RoleOutput},
	},
	Features:           []Feature{FeatureTemplatesServer},
	TemplateAlignProbe: "kalign",
	SeedScopedOutput:   true,
}

func init() {
	register(chaiSpec)
}
