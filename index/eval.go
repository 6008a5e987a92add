package index

import (
	"fmt"

	"github.com/ViaSema/luwak/query"
)

// Count returns the number of documents in the batch matching the query.
// It is used as a cheap existence check before any rewriting happens.
func (b *DocumentBatch) Count(q query.Query) (int, error) {
	count := 0
	err := b.SearchDocs(q, func(uint32) error {
		count++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SearchDocs evaluates the query document-by-document, in ascending
// internal id order, invoking cb once per matching document. No scores are
// computed.
func (b *DocumentBatch) SearchDocs(q query.Query, cb func(docID uint32) error) error {
	for _, docID := range b.docIDs {
		ok, err := b.matches(q, docID)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := cb(docID); err != nil {
			return err
		}
	}
	return nil
}

// matches decides whether one document satisfies the query. The type
// switch is exhaustive over the known variants; anything else is reported,
// never silently dropped.
func (b *DocumentBatch) matches(q query.Query, docID uint32) (bool, error) {
	switch q := q.(type) {
	case *query.TermQuery:
		return b.hasTerm(docID, q.Field, q.Term), nil

	case *query.BooleanQuery:
		return b.matchesBoolean(q, docID)

	case *query.MultiTermQuery:
		return b.matchesAnyTerm(docID, q.Field, q.Matcher)

	case *query.DisjunctionMaxQuery:
		for _, sub := range q.Queries {
			ok, err := b.matches(sub, docID)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	case *query.TermSetQuery:
		for _, ft := range q.Terms() {
			if b.hasTerm(docID, ft.Field, ft.Term) {
				return true, nil
			}
		}
		return false, nil

	case *query.MatchAllQuery:
		return true, nil

	default:
		return false, fmt.Errorf("cannot evaluate query variant %T", q)
	}
}

// matchesBoolean applies MUST/SHOULD/MUST_NOT semantics: every required
// clause must match, no prohibited clause may match, and when no required
// clauses exist at least one optional clause must match. A query of only
// prohibited clauses (or no clauses) matches nothing.
func (b *DocumentBatch) matchesBoolean(q *query.BooleanQuery, docID uint32) (bool, error) {
	hasMust := false
	hasShould := false
	shouldMatched := false

	for _, clause := range q.Clauses {
		ok, err := b.matches(clause.Query, docID)
		if err != nil {
			return false, err
		}
		switch clause.Occur {
		case query.Must:
			hasMust = true
			if !ok {
				return false, nil
			}
		case query.MustNot:
			if ok {
				return false, nil
			}
		case query.Should:
			hasShould = true
			if ok {
				shouldMatched = true
			}
		}
	}

	if hasMust {
		return true, nil
	}
	if hasShould {
		return shouldMatched, nil
	}
	return false, nil
}

// matchesAnyTerm reports whether any distinct term of the document field
// is accepted by the matcher.
func (b *DocumentBatch) matchesAnyTerm(docID uint32, field string, matcher query.TermMatcher) (bool, error) {
	for _, term := range b.docTerms[docID][field] {
		ok, err := matcher.MatchesTerm(term)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
