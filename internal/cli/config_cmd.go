// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeranaias/campus-assistant/internal/config"
)

// =============================================================================
// CONFIG COMMAND
// =============================================================================

func (a *app) newConfigCmd() *cobra.Command {
	var asJSON bool
	show := func(cmd *cobra.Command, _ []string) error {
		if asJSON {
			return NewJSONResponse("config show", a.cfg).Write(cmd.OutOrStdout())
		}
		fmt.Fprint(cmd.OutOrStdout(), a.cfg.String())
		return nil
	}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the configuration",
		Args:  cobra.NoArgs,
		RunE:  show,
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "output JSON")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE:  show,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				path, err := a.configFile()
				if err != nil {
					return err
				}
				if asJSON {
					_, statErr := os.Stat(path)
					return NewJSONResponse("config path", map[string]any{
						"path":   path,
						"exists": statErr == nil,
					}).Write(cmd.OutOrStdout())
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		a.newConfigInitCmd(),
	)
	return cmd
}

func (a *app) newConfigInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := a.configFile()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg := config.Default()
			cfg.SetDefaults()
			if err := config.Save(cfg, path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), TitleStyle.Render("Wrote")+" "+path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

// configFile is the --config path, the existing file in the config
// directory, or the default TOML location.
func (a *app) configFile() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	if dir, err := config.ConfigDir(); err == nil {
		if found := config.FindConfigFile(dir); found != "" {
			return found, nil
		}
	}
	return config.DefaultPath()
}
