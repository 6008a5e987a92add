// Package monitor holds the stored-query registry and runs percolation:
// each incoming document batch is indexed once and every registered query
// is evaluated against it, emitting match records with exact hit
// positions.
package monitor

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/ViaSema/luwak/config"
	"github.com/ViaSema/luwak/index"
	"github.com/ViaSema/luwak/internal/errors"
	"github.com/ViaSema/luwak/internal/highlight"
	"github.com/ViaSema/luwak/internal/matches"
	"github.com/ViaSema/luwak/internal/metrics"
	"github.com/ViaSema/luwak/internal/persistence"
	"github.com/ViaSema/luwak/internal/rewrite"
	"github.com/ViaSema/luwak/model"
	"github.com/ViaSema/luwak/services"
	"github.com/ViaSema/luwak/store"
)

const queriesFile = "queries.gob"

// Monitor owns the registered queries and percolates document batches
// against them. It implements the services.MonitorAccessor interface.
type Monitor struct {
	mu       sync.RWMutex
	settings config.MonitorSettings
	queries  *store.QueryStore
	rewriter rewrite.Rewriter
	metrics  *metrics.Collector
	dataDir  string
}

// New creates a Monitor, loading any previously persisted queries from
// dataDir. An empty dataDir disables persistence. Collectors are
// registered with reg.
func New(settings config.MonitorSettings, dataDir string, reg prometheus.Registerer) *Monitor {
	settings.ApplyDefaults()
	m := &Monitor{
		settings: settings,
		queries:  store.NewQueryStore(),
		rewriter: rewrite.SpanRewriter{},
		metrics:  metrics.New(reg),
		dataDir:  dataDir,
	}
	m.loadQueriesFromDisk()
	return m
}

// SetRewriter replaces the default rewriter, so callers may supply
// stricter or looser rewrite rule sets.
func (m *Monitor) SetRewriter(rw rewrite.Rewriter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rewriter = rw
}

// Settings returns the monitor's configuration.
func (m *Monitor) Settings() config.MonitorSettings {
	return m.settings
}

func (m *Monitor) loadQueriesFromDisk() {
	if m.dataDir == "" {
		return
	}
	path := filepath.Join(m.dataDir, queriesFile)
	if err := persistence.LoadGob(path, m.queries); err != nil {
		log.Printf("No persisted queries loaded from %s: %v", path, err)
		return
	}
	log.Printf("Loaded %d stored queries from %s", m.queries.Len(), path)
}

func (m *Monitor) persistQueries() error {
	if m.dataDir == "" {
		return nil
	}
	path := filepath.Join(m.dataDir, queriesFile)
	if err := persistence.SaveGob(path, m.queries); err != nil {
		return fmt.Errorf("failed to persist stored queries: %w", err)
	}
	return nil
}

// Register stores the given queries, replacing any previous query with the
// same id, and persists the registry.
func (m *Monitor) Register(queries ...store.StoredQuery) error {
	for _, sq := range queries {
		if sq.ID == "" {
			return errors.NewValidationError("id", "stored query id cannot be empty")
		}
		if sq.Query == nil {
			return errors.NewValidationError("query", fmt.Sprintf("stored query '%s' has no query", sq.ID))
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sq := range queries {
		m.queries.Put(sq)
	}
	return m.persistQueries()
}

// DeleteQuery removes a stored query and persists the registry.
func (m *Monitor) DeleteQuery(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.queries.Delete(id) {
		return errors.NewQueryNotFoundError(id)
	}
	return m.persistQueries()
}

// GetQuery returns the stored query for the id.
func (m *Monitor) GetQuery(id string) (store.StoredQuery, error) {
	sq, ok := m.queries.Get(id)
	if !ok {
		return store.StoredQuery{}, errors.NewQueryNotFoundError(id)
	}
	return sq, nil
}

// ListQueryIDs returns the registered query ids in sorted order.
func (m *Monitor) ListQueryIDs() []string {
	return m.queries.IDs()
}

// QueryCount returns the number of registered queries.
func (m *Monitor) QueryCount() int {
	return m.queries.Len()
}

// Match percolates one document batch against every registered query.
// Stored queries are evaluated concurrently, bounded by the configured
// parallelism; the match store serializes merges per (query, document)
// key. A batch fault while evaluating one query is recorded under that
// query's id in the results and does not disturb other queries' matches.
func (m *Monitor) Match(docs []model.Document) (*services.MatchResults, error) {
	startTime := time.Now()

	m.mu.RLock()
	rewriter := m.rewriter
	m.mu.RUnlock()

	batch, err := index.NewDocumentBatch(docs, &m.settings)
	if err != nil {
		return nil, fmt.Errorf("failed to index document batch: %w", err)
	}

	matchStore := matches.NewStore(highlight.MergeMatches)
	matcher, err := highlight.NewMatcher(batch, rewriter, matchStore)
	if err != nil {
		return nil, err
	}

	stored := m.queries.Snapshot()
	queryErrs := make(map[string]error)
	var errMu sync.Mutex

	var g errgroup.Group
	g.SetLimit(m.settings.MatchParallelism)
	for _, sq := range stored {
		sq := sq
		g.Go(func() error {
			outcome, err := matcher.MatchQuery(sq.ID, sq.Query)
			if err != nil {
				errMu.Lock()
				queryErrs[sq.ID] = err
				errMu.Unlock()
				m.metrics.RecordOutcome(metrics.OutcomeError)
				return nil
			}
			m.metrics.RecordOutcome(outcomeLabel(outcome))
			return nil
		})
	}
	_ = g.Wait() // per-query faults are collected, never returned from the group

	took := time.Since(startTime)
	results := &services.MatchResults{
		RunID:         uuid.New().String(),
		DocumentCount: batch.Len(),
		QueriesRun:    len(stored),
		Matches:       matchStore.All(),
		Errors:        queryErrs,
		Took:          took.Milliseconds(),
	}
	m.metrics.RecordRun(len(results.Matches), took)

	log.Printf("Matched batch of %d documents against %d stored queries in %s (%d matches, %d query errors)",
		batch.Len(), len(stored), took, len(results.Matches), len(queryErrs))
	return results, nil
}

func outcomeLabel(o highlight.Outcome) string {
	switch o {
	case highlight.OutcomeHighlighted:
		return metrics.OutcomeHighlighted
	case highlight.OutcomeFallback:
		return metrics.OutcomeFallback
	default:
		return metrics.OutcomeSkipped
	}
}
