// Package poller refetches a remote topology document on a schedule and
// reports it whenever its content changes.
package poller

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"fibremap/internal/domain"
)

// FetchFunc loads the document at uri
type FetchFunc func(ctx context.Context, uri string) (*domain.Topology, error)

// ChangeFunc is called with a document whose content differs from the
// previous one
type ChangeFunc func(t *domain.Topology)

// Poller polls one source URI
type Poller struct {
	uri      string
	interval time.Duration
	fetch    FetchFunc
	onChange ChangeFunc

	mu     sync.Mutex
	digest [sha256.Size]byte
	primed bool
}

// New creates a poller. Seed it with the document already loaded so the
// first poll does not report it again.
func New(uri string, interval time.Duration, fetch FetchFunc, onChange ChangeFunc) *Poller {
	return &Poller{
		uri:      uri,
		interval: interval,
		fetch:    fetch,
		onChange: onChange,
	}
}

// Seed records t as the current document
func (p *Poller) Seed(t *domain.Topology) error {
	digest, err := fingerprint(t)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.digest, p.primed = digest, true
	p.mu.Unlock()
	return nil
}

// Run polls every interval until ctx is done
func (p *Poller) Run(ctx context.Context) {
	if p.interval <= 0 {
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	log.Printf("Polling %s every %s", p.uri, p.interval)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Stopping poller for %s", p.uri)
			return
		case <-ticker.C:
			if _, err := p.Poll(ctx); err != nil {
				log.Printf("Poll failed for %s: %v", p.uri, err)
			}
		}
	}
}

// Poll fetches the document once and reports whether it changed
func (p *Poller) Poll(ctx context.Context) (bool, error) {
	t, err := p.fetch(ctx, p.uri)
	if err != nil {
		return false, fmt.Errorf("fetch failed: %w", err)
	}

	digest, err := fingerprint(t)
	if err != nil {
		return false, err
	}

	p.mu.Lock()
	changed := !p.primed || digest != p.digest
	p.digest, p.primed = digest, true
	p.mu.Unlock()

	if !changed {
		return false, nil
	}

	p.onChange(t)
	return true, nil
}

func fingerprint(t *domain.Topology) ([sha256.Size]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return [sha256.Size]byte{}, fmt.Errorf("fingerprint topology: %w", err)
	}
	return sha256.Sum256(data), nil
}
