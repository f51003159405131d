// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"foldrun-cli/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// appConfig is the loaded configuration, shared by all subcommands.
	appConfig *config.Config

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "foldrun",
		Short: "Run structure-prediction backends natively or in containers",
		Long: TitleStyle.Render("foldrun") + SubtitleStyle.Render(" - structure-prediction backend runner") + `

foldrun resolves and executes interchangeable structure-prediction
backends (Boltz, Chai-1) either as locally installed executables or
inside Apptainer/Singularity images, producing identical command
semantics in both modes.

` + SubtitleStyle.Render("Examples:") + `
  foldrun predict --input run.yaml --output out/          Run all backends directly
  foldrun predict --boltz-image img/boltz.sif ...         Run Boltz containerized
  foldrun predict --dry-run ...                           Show the commands, don't run
  foldrun check                                           Probe backend availability
  foldrun config show                                     Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/foldrun/config.toml)")

	// Add subcommands
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads in the config file and applies global settings.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		cfg = config.DefaultConfig()
	}
	appConfig = cfg

	if cfg.Verbose || verbose {
		verbose = true
		log.SetLevel(log.DebugLevel)
	}
}
