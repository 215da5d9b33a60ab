package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fibremap/internal/codec"
	"fibremap/internal/config"
	"fibremap/internal/repository/sqlite"
	"fibremap/internal/view"
)

const scenarioJSON = `{
  "splice_closures": [
    {"label": "C1", "enc_type": 5},
    {"label": "C2", "enc_type": 3}
  ],
  "feeder_cables": [{"from": "C1", "to": "C1", "label": "F1"}],
  "optical_tap": [{"label": "T1"}],
  "fibre_cables": [
    {"from": "C1", "to": "T1", "label": "FB1"},
    {"from": "T1", "to": "C1", "label": "FB2"}
  ]
}`

func writeScenario(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "network.json")
	require.NoError(t, os.WriteFile(path, []byte(scenarioJSON), 0644))
	return path
}

func init() {
	color.NoColor = true
}

func TestExpandDevice(t *testing.T) {
	topo, err := codec.NewJSONCodec().Parse(bytes.NewBufferString(scenarioJSON))
	require.NoError(t, err)

	t.Run("closure with fibres", func(t *testing.T) {
		delta, outcome, err := expandDevice(topo, "C1")
		require.NoError(t, err)

		assert.Equal(t, view.ActionReplace, outcome.Action)
		assert.Equal(t, "C1", outcome.Root)

		require.Len(t, delta.AddedNodes, 1)
		assert.Equal(t, "T1", delta.AddedNodes[0].ID)

		var edgeIDs []string
		for _, e := range delta.AddedEdges {
			edgeIDs = append(edgeIDs, e.ID)
		}
		assert.ElementsMatch(t, []string{"FB1", "FB2"}, edgeIDs)
		assert.Empty(t, delta.RemovedNodeIDs)
	})

	t.Run("closure without fibres", func(t *testing.T) {
		delta, outcome, err := expandDevice(topo, "C2")
		require.NoError(t, err)

		assert.Equal(t, view.ActionReplace, outcome.Action)
		assert.True(t, delta.IsEmpty())
	})

	t.Run("unknown device", func(t *testing.T) {
		delta, outcome, err := expandDevice(topo, "nope")
		require.NoError(t, err)

		assert.Equal(t, view.ActionNoop, outcome.Action)
		assert.True(t, delta.IsEmpty())
	})
}

func TestRunExpand(t *testing.T) {
	path := writeScenario(t)
	ctx := context.Background()

	t.Run("prints the revealed branch", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runExpand(ctx, &out, path, "C1"))

		text := out.String()
		assert.Contains(t, text, "branch from C1")
		assert.Contains(t, text, "1 nodes")
		assert.Contains(t, text, "T1 OpticalTap")
		assert.Contains(t, text, "2 fibre cables")
		assert.Contains(t, text, "FB1")
		assert.Contains(t, text, "FB2")
	})

	t.Run("reports devices outside the base graph", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runExpand(ctx, &out, path, "T1"))
		assert.Contains(t, out.String(), "T1 is not a splice closure")
	})

	t.Run("reports closures without fibres", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runExpand(ctx, &out, path, "C2"))
		assert.Contains(t, out.String(), "C2 has no fibre cables")
	})

	t.Run("missing document", func(t *testing.T) {
		var out bytes.Buffer
		err := runExpand(ctx, &out, filepath.Join(t.TempDir(), "missing.json"), "C1")
		assert.Error(t, err)
	})
}

func TestRunImport(t *testing.T) {
	ctx := context.Background()
	docPath := writeScenario(t)
	dbPath := filepath.Join(t.TempDir(), "fibremap.db")

	var out bytes.Buffer
	require.NoError(t, runImport(ctx, &out, docPath, dbPath))
	assert.Contains(t, out.String(), "Imported "+docPath)
	assert.Contains(t, out.String(), "fibre_cables")

	repo, err := sqlite.New(dbPath)
	require.NoError(t, err)
	defer repo.Close()

	topo, err := repo.LoadTopology(ctx)
	require.NoError(t, err)
	require.NotNil(t, topo)
	assert.Len(t, topo.SpliceClosures, 2)
	assert.Len(t, topo.FibreCables, 2)

	info, err := repo.LastImport(ctx)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, docPath, info.Source)

	t.Run("snapshot can be expanded", func(t *testing.T) {
		var expanded bytes.Buffer
		require.NoError(t, runExpand(ctx, &expanded, "sqlite://"+dbPath, "C1"))
		assert.Contains(t, expanded.String(), "T1 OpticalTap")
	})
}

func TestRunConfigInit(t *testing.T) {
	t.Run("writes a loadable default config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "fibremap.toml")

		var out bytes.Buffer
		require.NoError(t, runConfigInit(&out, path, false))
		assert.Contains(t, out.String(), "Wrote "+path)

		cfg, _, err := config.LoadFromPath(path)
		require.NoError(t, err)
		assert.Equal(t, config.DefaultConfig(), cfg)
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fibremap.yaml")
		require.NoError(t, os.WriteFile(path, []byte("source:\n  uri: keep.json\n"), 0644))

		err := runConfigInit(&bytes.Buffer{}, path, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")

		cfg, _, err := config.LoadFromPath(path)
		require.NoError(t, err)
		assert.Equal(t, "keep.json", cfg.Source.URI)

		require.NoError(t, runConfigInit(&bytes.Buffer{}, path, true))
		cfg, _, err = config.LoadFromPath(path)
		require.NoError(t, err)
		assert.Empty(t, cfg.Source.URI)
	})
}

func TestVersionCmd(t *testing.T) {
	cmd := versionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "fibremap "+version+"\n", out.String())
}
