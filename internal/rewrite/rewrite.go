// Package rewrite converts plain queries into their position-aware (span)
// equivalents so matching can report exact term locations. Every known
// query variant has a rewrite rule; anything else yields an *Error naming
// the variant, and the caller decides how to degrade.
package rewrite

import (
	"fmt"

	"github.com/ViaSema/luwak/query"
)

// Error reports that a query variant has no span rewriting rule. It is
// always recoverable: callers fall back to position-less matching instead
// of failing the batch.
type Error struct {
	Variant string
}

func (e *Error) Error() string {
	return fmt.Sprintf("no span rewriting rule for query variant %s", e.Variant)
}

// Rewriter turns a query into its span form. Implementations other than
// SpanRewriter may support narrower or wider variant sets.
type Rewriter interface {
	Rewrite(q query.Query) (query.SpanQuery, error)
}

// SpanRewriter is the default Rewriter, covering the full built-in
// variant set. It is stateless; the zero value is ready to use.
type SpanRewriter struct{}

// Rewrite dispatches exhaustively over the query variants. Boolean
// structure survives bit-for-bit: clause order, occur tags and
// disjunction tie-break weights are preserved exactly.
func (r SpanRewriter) Rewrite(q query.Query) (query.SpanQuery, error) {
	switch q := q.(type) {
	case *query.TermQuery:
		return &query.SpanTermQuery{Field: q.Field, Term: q.Term}, nil

	case *query.BooleanQuery:
		return r.rewriteBoolean(q)

	case *query.MultiTermQuery:
		return &query.SpanMultiTermQuery{Field: q.Field, Matcher: q.Matcher}, nil

	case *query.DisjunctionMaxQuery:
		return r.rewriteDisjunctionMax(q)

	case *query.TermSetQuery:
		return rewriteTermSet(q), nil

	default:
		return nil, &Error{Variant: fmt.Sprintf("%T", q)}
	}
}

// rewriteBoolean rewrites each clause recursively. The result evaluates
// document-at-a-time so the per-document collector callback always fires.
func (r SpanRewriter) rewriteBoolean(q *query.BooleanQuery) (query.SpanQuery, error) {
	clauses := make([]query.SpanBooleanClause, len(q.Clauses))
	for i, clause := range q.Clauses {
		span, err := r.Rewrite(clause.Query)
		if err != nil {
			return nil, err
		}
		clauses[i] = query.SpanBooleanClause{Span: span, Occur: clause.Occur}
	}
	return &query.SpanBooleanQuery{Clauses: clauses}, nil
}

func (r SpanRewriter) rewriteDisjunctionMax(q *query.DisjunctionMaxQuery) (query.SpanQuery, error) {
	spans := make([]query.SpanQuery, len(q.Queries))
	for i, sub := range q.Queries {
		span, err := r.Rewrite(sub)
		if err != nil {
			return nil, err
		}
		spans[i] = span
	}
	return &query.SpanDisjunctionMaxQuery{Spans: spans, TieBreaker: q.TieBreaker}, nil
}

// rewriteTermSet materializes the set into a disjunction of exact span
// terms. Terms() is canonical, so the output never depends on how the set
// was built.
func rewriteTermSet(q *query.TermSetQuery) query.SpanQuery {
	terms := q.Terms()
	spanTerms := make([]query.SpanTermQuery, len(terms))
	for i, ft := range terms {
		spanTerms[i] = query.SpanTermQuery{Field: ft.Field, Term: ft.Term}
	}
	return &query.SpanOrQuery{Terms: spanTerms}
}
