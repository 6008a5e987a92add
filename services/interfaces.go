package services

import (
	"github.com/ViaSema/luwak/internal/highlight"
	"github.com/ViaSema/luwak/model"
	"github.com/ViaSema/luwak/store"
)

// MatchResults is the outcome of percolating one document batch against
// every registered query.
type MatchResults struct {
	RunID         string            `json:"run_id"` // unique UUID for this percolation run
	DocumentCount int               `json:"document_count"`
	QueriesRun    int               `json:"queries_run"`
	Matches       []highlight.Match `json:"matches"` // ordered by (query id, doc id)
	Errors        map[string]error  `json:"-"`       // per-query batch faults, keyed by query id
	Took          int64             `json:"took"`    // milliseconds
}

// GetMatch returns the match for a (query, document) pair, if any.
func (r *MatchResults) GetMatch(queryID, docID string) *highlight.Match {
	for i := range r.Matches {
		if r.Matches[i].QueryID == queryID && r.Matches[i].DocID == docID {
			return &r.Matches[i]
		}
	}
	return nil
}

// QueryRegistry defines operations for managing the stored queries of a
// monitor.
type QueryRegistry interface {
	Register(queries ...store.StoredQuery) error
	DeleteQuery(id string) error
	GetQuery(id string) (store.StoredQuery, error)
	ListQueryIDs() []string
}

// DocumentMatcher percolates a batch of documents against the registered
// queries.
type DocumentMatcher interface {
	Match(docs []model.Document) (*MatchResults, error)
}

// MonitorAccessor combines query registration and document matching.
type MonitorAccessor interface {
	QueryRegistry
	DocumentMatcher
}
