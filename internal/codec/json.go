package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"fibremap/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// ContentType returns the media type of exported documents
func (c *JSONCodec) ContentType() string {
	return "application/json"
}

// Parse imports a topology document from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.Topology, error) {
	var doc rawDocument
	decoder := json.NewDecoder(r)
	// Keep numeric fields such as enc_type in their written form
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return doc.toTopology(), nil
}

// Export exports a graph as JSON
func (c *JSONCodec) Export(graph *domain.Graph, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(graph); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
