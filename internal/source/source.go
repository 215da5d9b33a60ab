// Package source fetches the topology document from wherever it lives: a
// local file, an HTTP endpoint, an S3 object or a sqlite snapshot.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"fibremap/internal/codec"
	"fibremap/internal/domain"
	"fibremap/internal/repository/sqlite"
)

// ErrUnsupportedScheme is returned for URIs no loader handles
var ErrUnsupportedScheme = errors.New("unsupported source scheme")

// Kind identifies how a URI is fetched
type Kind string

const (
	KindFile   Kind = "file"
	KindHTTP   Kind = "http"
	KindS3     Kind = "s3"
	KindSQLite Kind = "sqlite"
)

// Location is a parsed source URI
type Location struct {
	Kind Kind
	// Path is the file path, the full URL, the S3 key or the database path
	Path   string
	Bucket string
}

// Parse classifies a source URI. Bare paths are files.
func Parse(uri string) (Location, error) {
	if uri == "" {
		return Location{}, errors.New("empty source uri")
	}

	scheme, rest, found := strings.Cut(uri, "://")
	if !found {
		return Location{Kind: KindFile, Path: uri}, nil
	}

	switch strings.ToLower(scheme) {
	case "file":
		return Location{Kind: KindFile, Path: rest}, nil
	case "http", "https":
		if _, err := url.Parse(uri); err != nil {
			return Location{}, fmt.Errorf("parse source url: %w", err)
		}
		return Location{Kind: KindHTTP, Path: uri}, nil
	case "s3":
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return Location{}, fmt.Errorf("s3 uri %q must be s3://bucket/key", uri)
		}
		return Location{Kind: KindS3, Bucket: bucket, Path: key}, nil
	case "sqlite":
		if rest == "" {
			return Location{}, fmt.Errorf("sqlite uri %q has no database path", uri)
		}
		return Location{Kind: KindSQLite, Path: rest}, nil
	default:
		return Location{}, fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
	}
}

// S3API is the part of the S3 client the loader uses
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader fetches and parses topology documents
type Loader struct {
	HTTPClient *http.Client
	// S3 is created from the default AWS config on first use when nil
	S3 S3API
}

// NewLoader creates a loader with a bounded HTTP client
func NewLoader() *Loader {
	return &Loader{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Load fetches and parses the document at uri with a default loader
func Load(ctx context.Context, uri string) (*domain.Topology, error) {
	return NewLoader().Load(ctx, uri)
}

// Load fetches and parses the document at uri
func (l *Loader) Load(ctx context.Context, uri string) (*domain.Topology, error) {
	loc, err := Parse(uri)
	if err != nil {
		return nil, err
	}

	switch loc.Kind {
	case KindFile:
		return l.loadFile(loc.Path)
	case KindHTTP:
		return l.loadHTTP(ctx, loc.Path)
	case KindS3:
		return l.loadS3(ctx, loc.Bucket, loc.Path)
	case KindSQLite:
		return l.loadSQLite(ctx, loc.Path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, loc.Kind)
	}
}

func (l *Loader) loadFile(path string) (*domain.Topology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	return parse(codec.ForPath(path), f, path)
}

func (l *Loader) loadHTTP(ctx context.Context, rawURL string) (*domain.Topology, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	client := l.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", rawURL, resp.Status)
	}

	return parse(codec.ForContentType(resp.Header.Get("Content-Type"), req.URL.Path), resp.Body, rawURL)
}

func (l *Loader) loadS3(ctx context.Context, bucket, key string) (*domain.Topology, error) {
	client, err := l.s3Client(ctx)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	return parse(codec.ForContentType(aws.ToString(out.ContentType), key), out.Body, "s3://"+bucket+"/"+key)
}

func (l *Loader) s3Client(ctx context.Context) (S3API, error) {
	if l.S3 != nil {
		return l.S3, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	l.S3 = s3.NewFromConfig(cfg)
	return l.S3, nil
}

func (l *Loader) loadSQLite(ctx context.Context, path string) (*domain.Topology, error) {
	repo, err := sqlite.New(path)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	t, err := repo.LoadTopology(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("no topology snapshot in %s", path)
	}
	return t, nil
}

func parse(importer codec.Importer, r io.Reader, name string) (*domain.Topology, error) {
	t, err := importer.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return t, nil
}
