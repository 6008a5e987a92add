package index

import (
	"fmt"

	"github.com/ViaSema/luwak/query"
)

// LeafVisit receives one leaf term occurrence during a per-document walk.
type LeafVisit func(field string, position, startOffset, endOffset int)

// LeafWalk walks every leaf term occurrence the span query evaluated for
// one matching document. An error aborts the walk for that document only;
// occurrences already visited stand.
type LeafWalk func(visit LeafVisit) error

// SpanCallback is invoked once per matching document, in ascending
// internal id order, with that document's leaf walk.
type SpanCallback func(docID uint32, walk LeafWalk) error

// SearchSpans evaluates a span query document-at-a-time. For each matching
// document the callback fires exactly once; bulk-evaluation shortcuts are
// never taken, so the callback can walk that document's postings.
func (b *DocumentBatch) SearchSpans(sq query.SpanQuery, cb SpanCallback) error {
	for _, docID := range b.docIDs {
		ok, err := b.spanMatches(sq, docID)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		walk := func(visit LeafVisit) error {
			return b.walkSpans(sq, docID, visit)
		}
		if err := cb(docID, walk); err != nil {
			return err
		}
	}
	return nil
}

// spanMatches mirrors the boolean evaluation of matches for the span
// variants.
func (b *DocumentBatch) spanMatches(sq query.SpanQuery, docID uint32) (bool, error) {
	switch sq := sq.(type) {
	case *query.SpanTermQuery:
		return b.hasTerm(docID, sq.Field, sq.Term), nil

	case *query.SpanBooleanQuery:
		return b.spanMatchesBoolean(sq, docID)

	case *query.SpanMultiTermQuery:
		return b.matchesAnyTerm(docID, sq.Field, sq.Matcher)

	case *query.SpanDisjunctionMaxQuery:
		for _, sub := range sq.Spans {
			ok, err := b.spanMatches(sub, docID)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	case *query.SpanOrQuery:
		for _, t := range sq.Terms {
			if b.hasTerm(docID, t.Field, t.Term) {
				return true, nil
			}
		}
		return false, nil

	default:
		return false, fmt.Errorf("cannot evaluate span query variant %T", sq)
	}
}

func (b *DocumentBatch) spanMatchesBoolean(sq *query.SpanBooleanQuery, docID uint32) (bool, error) {
	hasMust := false
	hasShould := false
	shouldMatched := false

	for _, clause := range sq.Clauses {
		ok, err := b.spanMatches(clause.Span, docID)
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

// walkSpans visits every occurrence of every leaf span term that matched
// the document. Prohibited clauses never contribute occurrences, and
// optional clauses contribute only when they match the document
// themselves.
func (b *DocumentBatch) walkSpans(sq query.SpanQuery, docID uint32, visit LeafVisit) error {
	switch sq := sq.(type) {
	case *query.SpanTermQuery:
		b.visitTerm(docID, sq.Field, sq.Term, visit)
		return nil

	case *query.SpanBooleanQuery:
		for _, clause := range sq.Clauses {
			if clause.Occur == query.MustNot {
				continue
			}
			ok, err := b.spanMatches(clause.Span, docID)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if err := b.walkSpans(clause.Span, docID, visit); err != nil {
				return err
			}
		}
		return nil

	case *query.SpanMultiTermQuery:
		return b.walkMultiTerm(sq, docID, visit)

	case *query.SpanDisjunctionMaxQuery:
		for _, sub := range sq.Spans {
			ok, err := b.spanMatches(sub, docID)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if err := b.walkSpans(sub, docID, visit); err != nil {
				return err
			}
		}
		return nil

	case *query.SpanOrQuery:
		for _, t := range sq.Terms {
			b.visitTerm(docID, t.Field, t.Term, visit)
		}
		return nil

	default:
		return fmt.Errorf("cannot walk span query variant %T", sq)
	}
}

func (b *DocumentBatch) visitTerm(docID uint32, field, term string, visit LeafVisit) {
	for _, occ := range b.occurrences(docID, field, term) {
		visit(field, occ.Position, occ.StartOffset, occ.EndOffset)
	}
}

// walkMultiTerm expands the matcher against the document's vocabulary,
// enforcing the per-document expansion cap.
func (b *DocumentBatch) walkMultiTerm(sq *query.SpanMultiTermQuery, docID uint32, visit LeafVisit) error {
	expanded := 0
	for _, term := range b.docTerms[docID][sq.Field] {
		ok, err := sq.Matcher.MatchesTerm(term)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		expanded++
		if expanded > b.settings.MaxTermExpansions {
			return fmt.Errorf("multi-term query %s expanded past %d terms in field %q",
				sq, b.settings.MaxTermExpansions, sq.Field)
		}
		b.visitTerm(docID, sq.Field, term, visit)
	}
	return nil
}
