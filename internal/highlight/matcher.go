package highlight

import (
	"errors"
	"fmt"

	"github.com/ViaSema/luwak/index"
	"github.com/ViaSema/luwak/internal/matches"
	"github.com/ViaSema/luwak/internal/rewrite"
	"github.com/ViaSema/luwak/query"
)

// Outcome reports how a stored query's evaluation ended.
type Outcome int

const (
	// OutcomeSkipped: the existence check found no matching document, so
	// nothing was rewritten, collected or emitted.
	OutcomeSkipped Outcome = iota
	// OutcomeHighlighted: the query was rewritten and full hit positions
	// were collected.
	OutcomeHighlighted
	// OutcomeFallback: the query could not be made position-aware;
	// matching documents were reported without positions.
	OutcomeFallback
)

// Matcher evaluates stored queries against one document batch and emits
// match records into a store. The rewriter is injected so callers may
// supply stricter or looser rewrite rule sets.
type Matcher struct {
	batch    *index.DocumentBatch
	rewriter rewrite.Rewriter
	store    *matches.Store[Match]
}

// NewMatcher creates a Matcher bound to a batch, a rewriter and the store
// receiving emitted matches.
func NewMatcher(batch *index.DocumentBatch, rewriter rewrite.Rewriter, store *matches.Store[Match]) (*Matcher, error) {
	if batch == nil {
		return nil, fmt.Errorf("document batch cannot be nil")
	}
	if rewriter == nil {
		return nil, fmt.Errorf("rewriter cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("match store cannot be nil")
	}
	return &Matcher{batch: batch, rewriter: rewriter, store: store}, nil
}

// MatchQuery evaluates one stored query. Queries matching no document emit
// nothing at all. Queries that rewrite cleanly emit one match per matching
// document with full hit positions. Queries with no span rewriting rule
// fall back to position-less matches carrying the rewrite error; that
// error never escapes this method. Only faults from the batch itself are
// returned.
func (m *Matcher) MatchQuery(queryID string, q query.Query) (Outcome, error) {
	count, err := m.batch.Count(q)
	if err != nil {
		return OutcomeSkipped, err
	}
	if count == 0 {
		return OutcomeSkipped, nil
	}

	span, err := m.rewriter.Rewrite(q)
	if err != nil {
		var rewriteErr *rewrite.Error
		if !errors.As(err, &rewriteErr) {
			return OutcomeSkipped, err
		}
		if err := m.fallback(queryID, q, err); err != nil {
			return OutcomeSkipped, err
		}
		return OutcomeFallback, nil
	}

	found, err := m.findHighlights(queryID, span)
	if err != nil {
		return OutcomeSkipped, err
	}
	for _, match := range found {
		m.emit(match)
	}
	return OutcomeHighlighted, nil
}

// findHighlights runs the span query and builds one match per matching
// document. A fault while walking one document's postings lands on that
// document's match only; hits already collected for other documents are
// unaffected.
func (m *Matcher) findHighlights(queryID string, span query.SpanQuery) ([]Match, error) {
	var found []Match
	err := m.batch.SearchSpans(span, func(docID uint32, walk index.LeafWalk) error {
		match := Match{QueryID: queryID, DocID: m.batch.ResolveDocID(docID)}
		if walkErr := walk(func(field string, position, startOffset, endOffset int) {
			match.AddHit(field, position, position, startOffset, endOffset)
		}); walkErr != nil {
			match.Err = walkErr
		}
		found = append(found, match)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// fallback reruns the unrewritten query without scores and emits a
// degraded match per matching document: no hits, error set to the rewrite
// failure. Every matching document is still reported.
func (m *Matcher) fallback(queryID string, q query.Query, rewriteErr error) error {
	return m.batch.SearchDocs(q, func(docID uint32) error {
		m.emit(Match{
			QueryID: queryID,
			DocID:   m.batch.ResolveDocID(docID),
			Err:     rewriteErr,
		})
		return nil
	})
}

func (m *Matcher) emit(match Match) {
	m.store.Put(matches.Key{QueryID: match.QueryID, DocID: match.DocID}, match)
}
