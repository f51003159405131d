// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"foldrun-cli/internal/config"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage foldrun configuration",
		Long:  `View and manage the foldrun configuration file.`,
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ConfigFilePath()
			if err != nil {
				return err
			}

			rendered, err := appConfig.Render()
			if err != nil {
				return err
			}

			fmt.Println(TitleStyle.Render("Configuration"))
			fmt.Println(SubtitleStyle.Render("File: " + path))
			fmt.Println()
			fmt.Print(rendered)
			return nil
		},
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteDefault()
			if err != nil {
				return fmt.Errorf("%s: %w", ErrorStyle.Render("could not initialize configuration"), err)
			}
			fmt.Println(SuccessStyle.Render("✓ ") + "default configuration written to " + path)
			return nil
		},
	}

	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ConfigFilePath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}
