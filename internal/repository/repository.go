package repository

import (
	"context"

	"fibremap/internal/domain"
	"fibremap/internal/repository/sqlite"
)

// TopologyStore persists snapshots of the topology document
type TopologyStore interface {
	// ImportTopology replaces the stored snapshot. source records where the
	// document came from.
	ImportTopology(ctx context.Context, t *domain.Topology, source string) error

	// LoadTopology returns the stored snapshot, or nil if none exists
	LoadTopology(ctx context.Context) (*domain.Topology, error)

	// LastImport describes the stored snapshot, or nil if none exists
	LastImport(ctx context.Context) (*sqlite.ImportInfo, error)

	// Close releases resources
	Close() error
}

var _ TopologyStore = (*sqlite.Repository)(nil)
