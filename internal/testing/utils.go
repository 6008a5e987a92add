// Package testing provides utilities and helpers for testing the
// percolation monitor.
package testing

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ViaSema/luwak/config"
	"github.com/ViaSema/luwak/internal/monitor"
	"github.com/ViaSema/luwak/model"
	"github.com/ViaSema/luwak/query"
	"github.com/ViaSema/luwak/services"
	"github.com/ViaSema/luwak/store"
)

// CreateTestMonitor creates a monitor backed by a temporary data directory
// and an isolated metrics registry.
func CreateTestMonitor(t *testing.T) *monitor.Monitor {
	t.Helper()
	settings := config.MonitorSettings{Name: "test_monitor"}
	return monitor.New(settings, t.TempDir(), prometheus.NewRegistry())
}

// CreateTestDocument builds a document with an id and one body field.
func CreateTestDocument(id, body string) model.Document {
	return model.Document{
		"documentID": id,
		"body":       body,
	}
}

// RegisterTermQuery registers a single-term stored query and fails the
// test on error.
func RegisterTermQuery(t *testing.T, mon *monitor.Monitor, id, field, term string) {
	t.Helper()
	err := mon.Register(store.StoredQuery{
		ID:    id,
		Query: &query.TermQuery{Field: field, Term: term},
	})
	require.NoError(t, err, "failed to register stored query %s", id)
}

// AssertMatched asserts that the results contain a match for the
// (query, document) pair and returns it.
func AssertMatched(t *testing.T, results *services.MatchResults, queryID, docID string) {
	t.Helper()
	match := results.GetMatch(queryID, docID)
	require.NotNilf(t, match, "expected a match for query %s and document %s", queryID, docID)
	assert.Equal(t, queryID, match.QueryID)
	assert.Equal(t, docID, match.DocID)
}

// AssertNotMatched asserts that the results contain no match for the
// (query, document) pair.
func AssertNotMatched(t *testing.T, results *services.MatchResults, queryID, docID string) {
	t.Helper()
	assert.Nilf(t, results.GetMatch(queryID, docID),
		"expected no match for query %s and document %s", queryID, docID)
}
