package query

import (
	"fmt"
	"strings"
)

// SpanQuery is a query whose evaluation reports, per matching document, the
// exact token positions and character offsets that produced the match.
// The variant set is closed: SpanTermQuery, SpanBooleanQuery,
// SpanMultiTermQuery, SpanDisjunctionMaxQuery and SpanOrQuery.
type SpanQuery interface {
	isSpanQuery()
	fmt.Stringer
}

// SpanTermQuery is the position-aware form of TermQuery.
type SpanTermQuery struct {
	Field string
	Term  string
}

func (*SpanTermQuery) isSpanQuery() {}

func (q *SpanTermQuery) String() string {
	return fmt.Sprintf("span(%s:%s)", q.Field, q.Term)
}

// SpanBooleanClause pairs a span subquery with its occur tag.
type SpanBooleanClause struct {
	Span  SpanQuery
	Occur Occur
}

// SpanBooleanQuery is the position-aware form of BooleanQuery. It is
// evaluated strictly document-at-a-time: the per-document callback fires
// once per matching document so that document's postings can be walked,
// never through a bulk-scoring shortcut.
type SpanBooleanQuery struct {
	Clauses []SpanBooleanClause
}

func (*SpanBooleanQuery) isSpanQuery() {}

func (q *SpanBooleanQuery) String() string {
	parts := make([]string, len(q.Clauses))
	for i, c := range q.Clauses {
		parts[i] = c.Occur.String() + c.Span.String()
	}
	return "span(" + strings.Join(parts, " ") + ")"
}

// SpanMultiTermQuery wraps a multi-term matcher so its expansion yields
// positions. Terms are still resolved lazily against the batch vocabulary
// at search time.
type SpanMultiTermQuery struct {
	Field   string
	Matcher TermMatcher
}

func (*SpanMultiTermQuery) isSpanQuery() {}

func (q *SpanMultiTermQuery) String() string {
	return fmt.Sprintf("span(%s:%s)", q.Field, q.Matcher)
}

// SpanDisjunctionMaxQuery is the position-aware form of
// DisjunctionMaxQuery, carrying the tie-break weight through unchanged.
type SpanDisjunctionMaxQuery struct {
	Spans      []SpanQuery
	TieBreaker float64
}

func (*SpanDisjunctionMaxQuery) isSpanQuery() {}

func (q *SpanDisjunctionMaxQuery) String() string {
	parts := make([]string, len(q.Spans))
	for i, sub := range q.Spans {
		parts[i] = sub.String()
	}
	return fmt.Sprintf("spandismax(%s | tie=%g)", strings.Join(parts, " "), q.TieBreaker)
}

// SpanOrQuery matches documents containing any of its exact span terms.
// It is the materialized form of a TermSetQuery.
type SpanOrQuery struct {
	Terms []SpanTermQuery
}

func (*SpanOrQuery) isSpanQuery() {}

func (q *SpanOrQuery) String() string {
	parts := make([]string, len(q.Terms))
	for i, t := range q.Terms {
		parts[i] = t.String()
	}
	return "spanor(" + strings.Join(parts, " ") + ")"
}
