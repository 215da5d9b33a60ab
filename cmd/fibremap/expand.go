package main

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/spf13/cobra"

	"fibremap/internal/dataset"
	"fibremap/internal/domain"
	"fibremap/internal/expansion"
	"fibremap/internal/graph"
	"fibremap/internal/metrics"
	"fibremap/internal/ui"
	"fibremap/internal/view"
)

func expandCmd() *cobra.Command {
	var sourceURI string

	cmd := &cobra.Command{
		Use:   "expand <device>",
		Short: "Print the branch a click on a device reveals",
		Long: `Load the topology document and expand one device exactly as the viewer
does when the page is opened with ?from_device=<device>.

  fibremap expand OLT-01 --source ./network.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sourceURI == "" {
				cfg, _, err := loadConfig()
				if err != nil {
					return err
				}
				sourceURI = cfg.Source.URI
			}
			if sourceURI == "" {
				return fmt.Errorf("no source: pass --source or set source.uri in the config")
			}
			return runExpand(cmd.Context(), cmd.OutOrStdout(), sourceURI, args[0])
		},
	}

	cmd.Flags().StringVar(&sourceURI, "source", "", "Topology document: path, http(s)://, s3://bucket/key or sqlite://path")

	return cmd
}

func runExpand(ctx context.Context, out io.Writer, uri, device string) error {
	t, err := loadTopology(ctx, metrics.NewRegistry(), uri)
	if err != nil {
		return err
	}

	delta, outcome, err := expandDevice(t, device)
	if err != nil {
		return err
	}

	ui.Banner(out, "branch from "+ui.Info.Sprint(device))
	if outcome.Action == view.ActionNoop {
		ui.Warn.Fprintf(out, "  %s is not a splice closure in %s\n", device, uri)
		return nil
	}
	if delta.IsEmpty() {
		ui.Subtle.Fprintf(out, "  %s has no fibre cables\n", device)
		return nil
	}

	fmt.Fprintf(out, "  %s nodes\n", ui.Good.Sprint(len(delta.AddedNodes)))
	for _, n := range delta.AddedNodes {
		fmt.Fprintf(out, "    %s %s\n", n.ID, ui.Kind(n.Kind))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "  %s fibre cables\n", ui.Good.Sprint(len(delta.AddedEdges)))
	rows := make([][]string, 0, len(delta.AddedEdges))
	for _, e := range delta.AddedEdges {
		rows = append(rows, []string{e.From, e.To, e.Label})
	}
	ui.Table(out, []string{"FROM", "TO", "LABEL"}, rows)

	ui.Subtle.Fprintf(out, "\n  %d nodes visited\n", outcome.Expand.Visited)
	return nil
}

// expandDevice runs the startup auto-expand of a page opened on device and
// returns what it added to the base graph
func expandDevice(t *domain.Topology, device string) (*domain.GraphDelta, view.Outcome, error) {
	loc, err := view.ParseLocation("/?" + view.FromDeviceParam + "=" + url.QueryEscape(device))
	if err != nil {
		return nil, view.Outcome{}, err
	}

	index := domain.NewIndex(t)
	base := graph.BuildFromTopology(index.Topology())

	ds := dataset.New()
	base.Populate(ds)
	recorder := dataset.NewRecorder()
	ds.Subscribe(recorder.Record)

	controller := view.NewController(expansion.NewEngine(index, ds, base), ds, loc)
	outcome := controller.Start()
	return recorder.Take(), outcome, nil
}
