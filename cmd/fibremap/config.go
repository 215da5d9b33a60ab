package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"fibremap/internal/config"
	"fibremap/internal/ui"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the config file",
		Long: `Write a default config file or show the one fibremap would load.

  fibremap config init                   # ~/.config/fibremap/config.yaml
  fibremap config init ./fibremap.toml   # TOML, picked by extension
  fibremap config show`,
	}

	cmd.AddCommand(configInitCmd(), configShowCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigPath()
			if len(args) == 1 {
				path = args[0]
			}
			return runConfigInit(cmd.OutOrStdout(), path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func runConfigInit(out io.Writer, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Fprintf(out, "  %s Wrote %s\n", ui.StatusIcon(true), ui.Info.Sprint(path))
	ui.Subtle.Fprintln(out, "  Set source.uri before running fibremap serve")
	return nil
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the config file in use and its settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if path == "" {
				path = "(none, defaults)"
			}
			fmt.Fprintf(out, "  %s %s\n", ui.Subtle.Sprint("file:"), path)
			fmt.Fprintln(out, cfg.Summary())
			return nil
		},
	}
}
