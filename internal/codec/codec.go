package codec

import (
	"io"
	"mime"
	"path/filepath"
	"strings"

	"fibremap/internal/domain"
)

// Importer interface for parsing topology documents from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.Topology, error)
	Format() string
}

// Exporter interface for exporting a rendered graph to various formats
type Exporter interface {
	Export(graph *domain.Graph, w io.Writer) error
	Format() string
	ContentType() string
}

// Codec both parses documents and exports graphs
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec for a format name, or nil if unknown
func ForFormat(format string) Codec {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONCodec()
	case "yaml", "yml":
		return NewYAMLCodec()
	default:
		return nil
	}
}

// ForPath picks a codec from a file extension. JSON is the default since the
// document is usually served as JSON.
func ForPath(path string) Codec {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if c := ForFormat(ext); c != nil {
		return c
	}
	return NewJSONCodec()
}

// ForContentType picks a codec from an HTTP Content-Type header, falling back
// to the path extension
func ForContentType(contentType, path string) Codec {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err == nil {
		switch {
		case strings.Contains(mediaType, "yaml"):
			return NewYAMLCodec()
		case strings.Contains(mediaType, "json"):
			return NewJSONCodec()
		}
	}
	return ForPath(path)
}
