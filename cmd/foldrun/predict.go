// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"foldrun-cli/internal/backend"
	"foldrun-cli/internal/issue"
	"foldrun-cli/internal/pipeline"
	"foldrun-cli/pkg/types"
)

var (
	predictInput       string
	predictOutput      string
	predictBackends    []string
	predictBoltzImage  string
	predictChaiImage   string
	predictSamples     int
	predictRecycles    int
	predictSeed        int
	predictSeeds       []int
	predictMSADir      string
	predictConstraints string
	predictTemplates   string
	predictUseServer   bool
	predictDryRun      bool

	predictCmd = &cobra.Command{
		Use:   "predict",
		Short: "Resolve and run prediction backends",
		Long: `Resolve each selected backend to an execution strategy (native or
containerized) and run it against the given input.

A backend runs inside a container when an image is supplied for it, either via
--boltz-image/--chai-image or via the [backends.<name>] section of the config
file. Without an image the natively installed executable is used.`,
		Example: `  foldrun predict --input run.yaml --output out/
  foldrun predict --input run.yaml --output out/ --backends boltz
  foldrun predict --input run.fasta --output out/ --chai-image img/chai.sif --msa-dir msas/
  foldrun predict --input run.yaml --output out/ --seeds 1,2,3 --dry-run`,
		RunE: runPredict,
	}
)

func init() {
	predictCmd.Flags().StringVarP(&predictInput, "input", "i", "", "input file (YAML or FASTA) (required)")
	predictCmd.Flags().StringVarP(&predictOutput, "output", "o", "", "output directory (required)")
	predictCmd.Flags().StringSliceVar(&predictBackends, "backends", []string{"boltz", "chai"}, "backends to run")
	predictCmd.Flags().StringVar(&predictBoltzImage, "boltz-image", "", "Boltz container image (.sif); enables container mode")
	predictCmd.Flags().StringVar(&predictChaiImage, "chai-image", "", "Chai-1 container image (.sif); enables container mode")
	predictCmd.Flags().IntVar(&predictSamples, "samples", backend.DefaultSamples, "number of models to generate")
	predictCmd.Flags().IntVar(&predictRecycles, "recycles", backend.DefaultRecycles, "number of recycling steps")
	predictCmd.Flags().IntVar(&predictSeed, "seed", backend.DefaultSeed, "random seed")
	predictCmd.Flags().IntSliceVar(&predictSeeds, "seeds", nil, "run once per seed (overrides --seed)")
	predictCmd.Flags().StringVar(&predictMSADir, "msa-dir", "", "directory with precomputed MSAs")
	predictCmd.Flags().StringVar(&predictConstraints, "constraints", "", "constraints file")
	predictCmd.Flags().StringVar(&predictTemplates, "template-hits", "", "template hits file (.m8)")
	predictCmd.Flags().BoolVar(&predictUseServer, "use-templates-server", false, "fetch templates from a remote server (backend support required)")
	predictCmd.Flags().BoolVar(&predictDryRun, "dry-run", false, "print the resolved commands without running them")

	_ = predictCmd.MarkFlagRequired("input")
	_ = predictCmd.MarkFlagRequired("output")
}

func runPredict(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(predictOutput, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	runner := pipeline.NewRunner(appConfig.EnginePreference())
	if verbose {
		logger := log.Default()
		logger.SetLevel(log.DebugLevel)
		runner.SetLogger(logger)
	}

	var failed []string
	for _, name := range predictBackends {
		req, err := buildRequest(cmd, strings.TrimSpace(name))
		if err != nil {
			reportBackendError(name, err)
			failed = append(failed, name)
			continue
		}

		if predictDryRun {
			if err := renderDryRun(runner, req); err != nil {
				reportBackendError(name, err)
				failed = append(failed, name)
			}
			continue
		}

		result := runner.Run(cmd.Context(), req, predictSeeds)
		if !result.Success() {
			if result.Error != nil {
				reportBackendError(name, result.Error)
			} else {
				fmt.Fprintln(os.Stderr, ErrorStyle.Render(fmt.Sprintf(
					"Backend %q failed with exit code %d", name, result.ExitCode)))
				renderIssue(issue.Get(issue.PredictionRunFailedId))
			}
			failed = append(failed, name)
			continue
		}
		fmt.Println(SuccessStyle.Render(fmt.Sprintf("Backend %q completed successfully", name)))
	}

	if len(failed) > 0 {
		return &ExitError{
			Code: 1,
			Err:  fmt.Errorf("backends failed: %s", strings.Join(failed, ", ")),
		}
	}
	return nil
}

// buildRequest assembles the request for one backend from flags and config.
// Flags that the user set win over config values, which win over defaults.
func buildRequest(cmd *cobra.Command, name string) (*backend.ExecutionRequest, error) {
	spec, err := backend.Get(name)
	if err != nil {
		return nil, err
	}

	req := backend.NewRequest(spec)
	req.Paths[backend.RoleInput] = types.FilesystemPath(predictInput)
	req.Paths[backend.RoleOutput] = types.FilesystemPath(predictOutput)
	if predictMSADir != "" {
		req.Paths[backend.RoleMSA] = types.FilesystemPath(predictMSADir)
	}
	if predictConstraints != "" {
		req.Paths[backend.RoleConstraints] = types.FilesystemPath(predictConstraints)
	}
	if predictTemplates != "" {
		req.Paths[backend.RoleTemplates] = types.FilesystemPath(predictTemplates)
	}

	req.Samples = numericSetting(cmd, "samples", predictSamples, appConfig.Samples, backend.DefaultSamples)
	req.Recycles = numericSetting(cmd, "recycles", predictRecycles, appConfig.Recycles, backend.DefaultRecycles)
	req.Seed = numericSetting(cmd, "seed", predictSeed, appConfig.Seed, backend.DefaultSeed)
	req.UseTemplatesServer = predictUseServer

	if image := imageSetting(cmd, name); image != "" {
		req.ContainerImage = types.FilesystemPath(image)
	}

	return req, nil
}

// numericSetting resolves flag > config > default for a numeric parameter.
func numericSetting(cmd *cobra.Command, flag string, flagVal, cfgVal, def int) int {
	if cmd.Flags().Changed(flag) {
		return flagVal
	}
	if cfgVal > 0 || (flag == "seed" && cfgVal >= 0) {
		return cfgVal
	}
	return def
}

// imageSetting resolves the container image for a backend: explicit flag first,
// then the per-backend config section. Empty means direct mode.
func imageSetting(cmd *cobra.Command, name string) string {
	switch name {
	case "boltz":
		if cmd.Flags().Changed("boltz-image") {
			return predictBoltzImage
		}
	case "chai":
		if cmd.Flags().Changed("chai-image") {
			return predictChaiImage
		}
	}
	return appConfig.ImageFor(name)
}

// reportBackendError prints a styled error plus catalog guidance when available.
func reportBackendError(name string, err error) {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render(fmt.Sprintf("Backend %q: ", name))+formatErrorForDisplay(err, verbose))
	if iss := issueForError(err); iss != nil {
		renderIssue(iss)
	}
}

// renderIssue prints a catalog entry's rendered markdown to stderr. Rendering
// failures degrade to the raw markdown text.
func renderIssue(iss *issue.Issue) {
	if iss == nil {
		return
	}
	out, err := iss.Render("dark")
	if err != nil {
		out = string(iss.MarkdownMsg())
	}
	fmt.Fprintln(os.Stderr, out)
}
