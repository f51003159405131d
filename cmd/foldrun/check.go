// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"foldrun-cli/internal/backend"
	"foldrun-cli/internal/engine"
	"foldrun-cli/internal/pipeline"
	"foldrun-cli/pkg/types"
)

var (
	checkBackends   []string
	checkBoltzImage string
	checkChaiImage  string

	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Probe backend and engine availability",
		Long: `Probe whether each backend can be invoked without running a prediction.

Backends with a configured or flagged image are checked in container mode
(engine on PATH, image file exists); the rest are checked for a natively
installed executable.`,
		Example: `  foldrun check
  foldrun check --backends boltz
  foldrun check --boltz-image img/boltz.sif`,
		RunE: runCheck,
	}
)

func init() {
	checkCmd.Flags().StringSliceVar(&checkBackends, "backends", backend.Names(), "backends to probe")
	checkCmd.Flags().StringVar(&checkBoltzImage, "boltz-image", "", "probe Boltz in container mode with this image")
	checkCmd.Flags().StringVar(&checkChaiImage, "chai-image", "", "probe Chai-1 in container mode with this image")
}

func runCheck(cmd *cobra.Command, args []string) error {
	runner := pipeline.NewRunner(appConfig.EnginePreference())

	reportEngines()

	var unavailable []string
	for _, name := range checkBackends {
		name = strings.TrimSpace(name)
		spec, err := backend.Get(name)
		if err != nil {
			fmt.Println(ErrorStyle.Render("✗ ") + err.Error())
			unavailable = append(unavailable, name)
			continue
		}

		req := backend.NewRequest(spec)
		if image := checkImage(cmd, name); image != "" {
			req.ContainerImage = types.FilesystemPath(image)
		}

		builder, err := runner.Check(req)
		if err != nil {
			fmt.Printf("%s %s (%s)\n", ErrorStyle.Render("✗"), name, req.Mode())
			fmt.Println("  " + formatErrorForDisplay(err, verbose))
			if iss := issueForError(err); iss != nil && verbose {
				renderIssue(iss)
			}
			unavailable = append(unavailable, name)
			continue
		}

		fmt.Printf("%s %s (%s)\n", SuccessStyle.Render("✓"), name, builder.Name())
		if verbose {
			if vec, err := builder.BuildSmoke(req); err == nil {
				fmt.Println("  " + CmdStyle.Render(vec.Shell()))
			}
		}
	}

	if len(unavailable) > 0 {
		return &ExitError{
			Code: 1,
			Err:  fmt.Errorf("backends unavailable: %s", strings.Join(unavailable, ", ")),
		}
	}
	return nil
}

// checkImage resolves the probe image for a backend: flag first, then config.
func checkImage(cmd *cobra.Command, name string) string {
	switch name {
	case "boltz":
		if cmd.Flags().Changed("boltz-image") {
			return checkBoltzImage
		}
	case "chai":
		if cmd.Flags().Changed("chai-image") {
			return checkChaiImage
		}
	}
	return appConfig.ImageFor(name)
}

// reportEngines prints which container engines are on PATH. Informational only;
// a missing engine is an error only when a container-mode backend needs it.
func reportEngines() {
	eng, err := engine.AutoDetectEngine()
	if err != nil {
		fmt.Println(WarningStyle.Render("! ") + "no container engine found (apptainer/singularity)")
		return
	}
	fmt.Printf("%s container engine: %s\n", SuccessStyle.Render("✓"), eng.Name())
}
