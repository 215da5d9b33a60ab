package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"fibremap/internal/codec"
	"fibremap/internal/dataset"
	"fibremap/internal/domain"
	"fibremap/internal/expansion"
	"fibremap/internal/graph"
	"fibremap/internal/metrics"
	"fibremap/internal/view"
)

var (
	// ErrSessionNotFound is returned for unknown or closed session ids
	ErrSessionNotFound = errors.New("session not found")
	// ErrUnknownFormat is returned when no codec exports the requested format
	ErrUnknownFormat = errors.New("unknown export format")
)

// Eviction reasons reported to metrics and events
const (
	reasonIdle     = "idle"
	reasonCapacity = "capacity"
)

// Options tunes the session table
type Options struct {
	// IdleTTL closes sessions not accessed for this long. Zero disables it.
	IdleTTL time.Duration
	// MaxSessions caps the table; the least recently used session is evicted
	// to make room. Zero means unlimited.
	MaxSessions int
}

// loadedTopology is one immutable generation of the document
type loadedTopology struct {
	index    *domain.Index
	base     *graph.Base
	stats    domain.TopologyStats
	loadedAt time.Time
}

func newLoadedTopology(t *domain.Topology, now time.Time) *loadedTopology {
	index := domain.NewIndex(t)
	return &loadedTopology{
		index:    index,
		base:     graph.BuildFromTopology(index.Topology()),
		stats:    index.Topology().Stats(),
		loadedAt: now,
	}
}

// session is one browser view
type session struct {
	mu         sync.Mutex
	id         string
	dataset    *dataset.Dataset
	recorder   *dataset.Recorder
	controller *view.Controller
	createdAt  time.Time
	lastAccess atomic.Int64
}

func (s *session) touch(now time.Time) {
	s.lastAccess.Store(now.UnixNano())
}

func (s *session) lastAccessed() time.Time {
	return time.Unix(0, s.lastAccess.Load())
}

// snapshot must be called with s.mu held
func (s *session) snapshot() *View {
	g := s.dataset.Graph()
	return &View{
		SessionID: s.id,
		Nodes:     g.Nodes,
		Edges:     g.Edges,
		Phase:     s.controller.Phase(),
		State:     s.controller.State(),
		Focus:     s.controller.Focus(),
		URL:       s.controller.URL(),
	}
}

// View is the full rendered state of a session
type View struct {
	SessionID string             `json:"session_id"`
	Nodes     []domain.Node      `json:"nodes"`
	Edges     []domain.Edge      `json:"edges"`
	Phase     view.Phase         `json:"phase"`
	State     expansion.Snapshot `json:"state"`
	Focus     string             `json:"focus,omitempty"`
	URL       string             `json:"url"`
}

// ClickResult is the effect of one click on a session
type ClickResult struct {
	SessionID string             `json:"session_id"`
	Outcome   view.Outcome       `json:"outcome"`
	Delta     *domain.GraphDelta `json:"delta"`
}

// Stats describes the loaded topology and the session table
type Stats struct {
	Topology domain.TopologyStats `json:"topology"`
	Sessions int                  `json:"sessions"`
	LoadedAt time.Time            `json:"loaded_at"`
}

// ViewService owns the view sessions of the server
type ViewService struct {
	mu       sync.RWMutex
	topology *loadedTopology
	sessions map[string]*session

	eventBus *EventBus
	metrics  *metrics.Registry
	opts     Options
	now      func() time.Time
}

// NewViewService creates a service serving the given topology. A nil
// registry gets a private one so metrics calls never need guarding.
func NewViewService(t *domain.Topology, eventBus *EventBus, reg *metrics.Registry, opts Options) *ViewService {
	if eventBus == nil {
		eventBus = NewEventBus()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	svc := &ViewService{
		sessions: make(map[string]*session),
		eventBus: eventBus,
		metrics:  reg,
		opts:     opts,
		now:      time.Now,
	}
	svc.topology = newLoadedTopology(t, svc.now())
	return svc
}

// SetTopology swaps in a newly loaded document. Open sessions keep the
// topology they were created with.
func (s *ViewService) SetTopology(t *domain.Topology) {
	loaded := newLoadedTopology(t, s.now())

	s.mu.Lock()
	s.topology = loaded
	s.mu.Unlock()

	log.Printf("Topology loaded: %d closures, %d feeders, %d taps, %d fibres",
		loaded.stats.SpliceClosures, loaded.stats.FeederCables,
		loaded.stats.OpticalTaps, loaded.stats.FibreCables)

	s.eventBus.Publish(Event{
		Type:    EventTopologyReloaded,
		Payload: loaded.stats,
	})
}

// Index returns the current topology index
func (s *ViewService) Index() *domain.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.topology.index
}

// OpenSession creates a view for a page loaded at pageURL. A from_device
// parameter naming a base node auto-expands it.
func (s *ViewService) OpenSession(pageURL string) (*View, error) {
	loc, err := view.ParseLocation(pageURL)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	loaded := s.topology
	s.mu.RUnlock()

	ds := dataset.New()
	loaded.base.Populate(ds)

	sess := &session{
		id:        uuid.NewString(),
		dataset:   ds,
		recorder:  dataset.NewRecorder(),
		createdAt: s.now(),
	}
	sess.touch(sess.createdAt)
	// Subscribed after Populate so deltas never carry the base graph
	ds.Subscribe(sess.recorder.Record)

	engine := expansion.NewEngine(loaded.index, ds, loaded.base)
	sess.controller = view.NewController(engine, ds, loc)

	sess.mu.Lock()
	outcome := sess.controller.Start()
	sess.recorder.Take()
	v := sess.snapshot()
	sess.mu.Unlock()

	if outcome.Action != view.ActionNoop {
		s.recordOutcome(outcome)
	}
	s.insert(sess)

	s.eventBus.Publish(Event{
		Type:      EventSessionOpened,
		SessionID: sess.id,
		Payload:   map[string]string{"url": v.URL, "focus": v.Focus},
	})

	return v, nil
}

// Click applies a click on nodeID to a session. An empty nodeID is a click
// on empty canvas.
func (s *ViewService) Click(sessionID, nodeID string) (*ClickResult, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	outcome := sess.controller.Click(nodeID)
	delta := sess.recorder.Take()
	sess.mu.Unlock()

	s.recordOutcome(outcome)

	result := &ClickResult{
		SessionID: sessionID,
		Outcome:   outcome,
		Delta:     delta,
	}

	if !delta.IsEmpty() {
		s.eventBus.Publish(Event{
			Type:      EventGraphChanged,
			SessionID: sessionID,
			Payload:   result,
		})
	}

	return result, nil
}

// Snapshot returns the current view of a session
func (s *ViewService) Snapshot(sessionID string) (*View, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshot(), nil
}

// Export writes the rendered graph of a session in the given format
func (s *ViewService) Export(sessionID, format string, w io.Writer) error {
	exporter := codec.ForFormat(format)
	if exporter == nil {
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	g := sess.dataset.Graph()
	sess.mu.Unlock()

	if err := exporter.Export(g, w); err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	return nil
}

// Close removes a session
func (s *ViewService) Close(sessionID string) error {
	if !s.remove(sessionID, "") {
		return ErrSessionNotFound
	}
	return nil
}

// Stats returns topology and session counts
func (s *ViewService) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Topology: s.topology.stats,
		Sessions: len(s.sessions),
		LoadedAt: s.topology.loadedAt,
	}
}

// SessionCount returns the number of open sessions
func (s *ViewService) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ExpireIdle closes sessions idle for longer than the configured TTL and
// returns how many were closed
func (s *ViewService) ExpireIdle() int {
	if s.opts.IdleTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.opts.IdleTTL)

	s.mu.RLock()
	var stale []string
	for id, sess := range s.sessions {
		if sess.lastAccessed().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	s.mu.RUnlock()

	expired := 0
	for _, id := range stale {
		if s.remove(id, reasonIdle) {
			expired++
		}
	}
	if expired > 0 {
		log.Printf("Expired %d idle sessions", expired)
	}
	return expired
}

// RunSweeper expires idle sessions every interval until ctx is done
func (s *ViewService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.opts.IdleTTL <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ExpireIdle()
		}
	}
}

func (s *ViewService) lookup(sessionID string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	sess.touch(s.now())
	return sess, nil
}

func (s *ViewService) insert(sess *session) {
	s.mu.Lock()
	var evicted string
	if s.opts.MaxSessions > 0 && len(s.sessions) >= s.opts.MaxSessions {
		evicted = s.oldestLocked()
		delete(s.sessions, evicted)
	}
	s.sessions[sess.id] = sess
	active := len(s.sessions)
	s.mu.Unlock()

	if evicted != "" {
		s.closed(evicted, reasonCapacity, active)
	}
	s.metrics.SessionOpened(active)
}

// oldestLocked returns the least recently used session id
func (s *ViewService) oldestLocked() string {
	var (
		oldestID string
		oldestAt time.Time
	)
	for id, sess := range s.sessions {
		at := sess.lastAccessed()
		if oldestID == "" || at.Before(oldestAt) {
			oldestID, oldestAt = id, at
		}
	}
	return oldestID
}

func (s *ViewService) remove(sessionID, reason string) bool {
	s.mu.Lock()
	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	active := len(s.sessions)
	s.mu.Unlock()

	if ok {
		s.closed(sessionID, reason, active)
	}
	return ok
}

func (s *ViewService) closed(sessionID, reason string, active int) {
	s.metrics.SessionClosed(reason, active)

	eventType := EventSessionClosed
	if reason != "" {
		eventType = EventSessionExpired
	}
	s.eventBus.Publish(Event{
		Type:      eventType,
		SessionID: sessionID,
		Payload:   map[string]string{"reason": reason},
	})
}

func (s *ViewService) recordOutcome(o view.Outcome) {
	s.metrics.RecordClick(string(o.Action),
		o.Expand.NodesAdded, o.Expand.EdgesAdded, o.Expand.Visited,
		o.Collapse.NodesRemoved, o.Collapse.EdgesRemoved)
}
