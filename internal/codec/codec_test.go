package codec

import (
	"bytes"
	"strings"
	"testing"

	"fibremap/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioJSON = `{
  "splice_closures": [{"label": "C1", "enc_type": 5, "olt_name": "OLT-North", "depth": 1.5}],
  "feeder_cables": [{"from": "C1", "to": "C1", "label": "F1"}],
  "optical_tap": [{"label": "T1", "ports": 8}],
  "fibre_cables": [
    {"from": "C1", "to": "T1", "label": "FB1"},
    {"from": "T1", "to": "C1", "label": "FB2"}
  ]
}`

const scenarioYAML = `
splice_closures:
  - label: C1
    enc_type: "5"
    olt_name: OLT-North
feeder_cables:
  - {from: C1, to: C1, label: F1}
optical_tap:
  - label: T1
    ports: 8
fibre_cables:
  - {from: C1, to: T1, label: FB1}
  - {from: T1, to: C1, label: FB2}
`

func TestJSONCodecParse(t *testing.T) {
	t.Run("parses all four sequences", func(t *testing.T) {
		topo, err := NewJSONCodec().Parse(strings.NewReader(scenarioJSON))
		require.NoError(t, err)

		require.Len(t, topo.SpliceClosures, 1)
		assert.Equal(t, "C1", topo.SpliceClosures[0].Label)
		assert.Equal(t, "5", topo.SpliceClosures[0].EncType)
		assert.Equal(t, "OLT-North", topo.SpliceClosures[0].OLTName)
		assert.Equal(t, "1.5", topo.SpliceClosures[0].Attributes["depth"])
		assert.Equal(t, domain.NodeKindOLT, topo.SpliceClosures[0].Kind())

		require.Len(t, topo.FeederCables, 1)
		assert.Equal(t, "F1", topo.FeederCables[0].Label)

		require.Len(t, topo.OpticalTaps, 1)
		assert.Equal(t, "8", topo.OpticalTaps[0].Attributes["ports"])

		require.Len(t, topo.FibreCables, 2)
		assert.Equal(t, "T1", topo.FibreCables[1].From)
	})

	t.Run("missing sequences default to empty", func(t *testing.T) {
		topo, err := NewJSONCodec().Parse(strings.NewReader(`{"splice_closures": [{"label": "C1"}]}`))
		require.NoError(t, err)

		assert.Len(t, topo.SpliceClosures, 1)
		assert.NotNil(t, topo.FeederCables)
		assert.Empty(t, topo.FeederCables)
		assert.Empty(t, topo.OpticalTaps)
		assert.Empty(t, topo.FibreCables)
	})

	t.Run("missing fields default to empty strings", func(t *testing.T) {
		topo, err := NewJSONCodec().Parse(strings.NewReader(`{"fibre_cables": [{"from": "A", "to": null}]}`))
		require.NoError(t, err)

		require.Len(t, topo.FibreCables, 1)
		assert.Equal(t, "A", topo.FibreCables[0].From)
		assert.Equal(t, "", topo.FibreCables[0].To)
		assert.Equal(t, "", topo.FibreCables[0].Label)
	})

	t.Run("non-mapping elements are skipped", func(t *testing.T) {
		topo, err := NewJSONCodec().Parse(strings.NewReader(`{"optical_tap": ["bogus", {"label": "T1"}, 3]}`))
		require.NoError(t, err)

		require.Len(t, topo.OpticalTaps, 1)
		assert.Equal(t, "T1", topo.OpticalTaps[0].Label)
	})

	t.Run("malformed document fails", func(t *testing.T) {
		_, err := NewJSONCodec().Parse(strings.NewReader(`{"splice_closures": [`))
		assert.Error(t, err)
	})

	t.Run("wrong sequence type fails", func(t *testing.T) {
		_, err := NewJSONCodec().Parse(strings.NewReader(`{"fibre_cables": "nope"}`))
		assert.Error(t, err)
	})
}

func TestYAMLCodecParse(t *testing.T) {
	t.Run("parses all four sequences", func(t *testing.T) {
		topo, err := NewYAMLCodec().Parse(strings.NewReader(scenarioYAML))
		require.NoError(t, err)

		assert.Equal(t, domain.TopologyStats{
			SpliceClosures: 1,
			FeederCables:   1,
			OpticalTaps:    1,
			FibreCables:    2,
		}, topo.Stats())
		assert.Equal(t, "8", topo.OpticalTaps[0].Attributes["ports"])
	})

	t.Run("empty document is an empty topology", func(t *testing.T) {
		topo, err := NewYAMLCodec().Parse(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, topo.SpliceClosures)
	})

	t.Run("malformed document fails", func(t *testing.T) {
		_, err := NewYAMLCodec().Parse(strings.NewReader("splice_closures: [\n  - label: {"))
		assert.Error(t, err)
	})
}

func TestExport(t *testing.T) {
	graph := domain.NewGraph()
	graph.AddNode(domain.ClosureNode(domain.Closure{Label: "C1", EncType: "5"}))
	graph.AddEdge(*domain.NewFibreEdge("FB1", "C1", "T1", "FB1"))

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewJSONCodec().Export(graph, &buf))
		assert.Contains(t, buf.String(), `"group": "OLT"`)
		assert.Contains(t, buf.String(), `"dashes": true`)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewYAMLCodec().Export(graph, &buf))
		assert.Contains(t, buf.String(), "kind: OLT")
		assert.Contains(t, buf.String(), "id: FB1")
	})
}

func TestCodecSelection(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		path        string
		want        string
	}{
		{"yaml content type", "application/x-yaml", "doc", "yaml"},
		{"json content type with charset", "application/json; charset=utf-8", "doc.yaml", "json"},
		{"fallback to extension", "text/plain", "doc.yml", "yaml"},
		{"unknown everything defaults to json", "", "doc", "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForContentType(tt.contentType, tt.path).Format())
		})
	}

	for format, contentType := range map[string]string{
		"json": "application/json",
		"yaml": "application/x-yaml",
		"YML":  "application/x-yaml",
	} {
		c := ForFormat(format)
		require.NotNil(t, c, format)
		assert.Equal(t, contentType, c.ContentType(), format)
	}

	assert.Nil(t, ForFormat("xml"))
	assert.Equal(t, "yaml", ForPath("/data/topology.yaml").Format())
}
