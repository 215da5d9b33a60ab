package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fibremap/internal/config"
	"fibremap/internal/domain"
	"fibremap/internal/metrics"
	"fibremap/internal/source"
	"fibremap/internal/ui"
)

var version = "0.3.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "fibremap",
	Short: "fibremap - interactive fibre topology viewer",
	Long: ui.Brand.Sprint("fibremap") + " - explore fibre network topologies one branch at a time\n" +
		ui.Subtle.Sprint("Serve the browser viewer, snapshot documents and trace branches offline"),
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.SetVersionTemplate("fibremap {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $FIBREMAP_CONFIG or ./fibremap.yaml)")

	rootCmd.AddCommand(
		serveCmd(),
		importCmd(),
		expandCmd(),
		configCmd(),
		versionCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the --config file, or searches the default locations
func loadConfig() (*config.Config, string, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load()
}

// loadTopology fetches a document and records the load in reg
func loadTopology(ctx context.Context, reg *metrics.Registry, uri string) (*domain.Topology, error) {
	start := time.Now()
	t, err := source.Load(ctx, uri)
	if err != nil {
		reg.RecordTopologyLoad(nil, time.Since(start))
		return nil, fmt.Errorf("load %s: %w", uri, err)
	}

	stats := t.Stats()
	reg.RecordTopologyLoad(&stats, time.Since(start))
	return t, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the fibremap version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fibremap %s\n", version)
		},
	}
}
