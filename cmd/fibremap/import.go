package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"fibremap/internal/metrics"
	"fibremap/internal/repository"
	"fibremap/internal/repository/sqlite"
	"fibremap/internal/ui"
)

func importCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import <document>",
		Short: "Store a topology document as a sqlite snapshot",
		Long: `Load a topology document from any supported source and replace the
snapshot in the database with it. Serve the snapshot with --source sqlite://<db>.

  fibremap import ./network.json
  fibremap import https://maps.example.net/network.yaml --db /var/lib/fibremap.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("db") {
				cfg, _, err := loadConfig()
				if err != nil {
					return err
				}
				dbPath = cfg.Database.Path
			}
			return runImport(cmd.Context(), cmd.OutOrStdout(), args[0], dbPath)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default from config, ./fibremap.db)")

	return cmd
}

func runImport(ctx context.Context, out io.Writer, uri, dbPath string) error {
	t, err := loadTopology(ctx, metrics.DefaultRegistry(), uri)
	if err != nil {
		return err
	}

	store, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ImportTopology(ctx, t, uri); err != nil {
		return err
	}

	stats := t.Stats()
	fmt.Fprintf(out, "  %s Imported %s into %s\n", ui.StatusIcon(true), uri, ui.Info.Sprint(dbPath))
	ui.Table(out, []string{"RECORDS", "COUNT"}, [][]string{
		{"splice_closures", fmt.Sprint(stats.SpliceClosures)},
		{"feeder_cables", fmt.Sprint(stats.FeederCables)},
		{"optical_tap", fmt.Sprint(stats.OpticalTaps)},
		{"fibre_cables", fmt.Sprint(stats.FibreCables)},
	})
	return nil
}

func openStore(dbPath string) (repository.TopologyStore, error) {
	repo, err := sqlite.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return repo, nil
}
