package codec

import (
	"errors"
	"fmt"
	"io"

	"fibremap/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// ContentType returns the media type of exported documents
func (c *YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

// Parse imports a topology document from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Topology, error) {
	var doc rawDocument
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return doc.toTopology(), nil
}

// Export exports a graph as YAML
func (c *YAMLCodec) Export(graph *domain.Graph, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(graph); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
