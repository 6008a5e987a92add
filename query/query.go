// Package query defines the query AST evaluated against a document batch,
// and its position-aware (span) counterpart used for hit extraction.
package query

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"
	"strings"
)

// Occur qualifies a boolean clause: required, optional, or prohibited.
type Occur int

const (
	Must Occur = iota
	Should
	MustNot
)

// String returns the Lucene-style prefix notation for the occur tag.
func (o Occur) String() string {
	switch o {
	case Must:
		return "+"
	case Should:
		return ""
	case MustNot:
		return "-"
	}
	return fmt.Sprintf("Occur(%d)", int(o))
}

// Query is a node in the query AST. The variant set is closed: TermQuery,
// BooleanQuery, MultiTermQuery, DisjunctionMaxQuery, TermSetQuery and
// MatchAllQuery. Consumers dispatch with an exhaustive type switch whose
// default arm reports the unrecognized variant instead of dropping it.
type Query interface {
	isQuery()
	fmt.Stringer
}

// TermQuery matches documents containing an exact term in a field.
type TermQuery struct {
	Field string
	Term  string
}

func (*TermQuery) isQuery() {}

func (q *TermQuery) String() string {
	return fmt.Sprintf("%s:%s", q.Field, q.Term)
}

// BooleanClause pairs a subquery with its occur tag.
type BooleanClause struct {
	Query Query
	Occur Occur
}

// BooleanQuery combines subqueries with MUST/SHOULD/MUST_NOT semantics.
// Clause order is significant and preserved by every transformation.
type BooleanQuery struct {
	Clauses []BooleanClause
}

func (*BooleanQuery) isQuery() {}

func (q *BooleanQuery) String() string {
	parts := make([]string, len(q.Clauses))
	for i, c := range q.Clauses {
		parts[i] = c.Occur.String() + c.Query.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// DisjunctionMaxQuery matches documents matching any subquery. The tie-break
// weight is evaluation metadata carried through transformations untouched.
type DisjunctionMaxQuery struct {
	Queries    []Query
	TieBreaker float64
}

func (*DisjunctionMaxQuery) isQuery() {}

func (q *DisjunctionMaxQuery) String() string {
	parts := make([]string, len(q.Queries))
	for i, sub := range q.Queries {
		parts[i] = sub.String()
	}
	return fmt.Sprintf("dismax(%s | tie=%g)", strings.Join(parts, " "), q.TieBreaker)
}

// MatchAllQuery matches every document in the batch. It participates in
// boolean evaluation but has no position-aware form: there is no term
// occurrence to report for a query that matches unconditionally.
type MatchAllQuery struct{}

func (*MatchAllQuery) isQuery() {}

func (*MatchAllQuery) String() string { return "*:*" }

// FieldTerm is a literal (field, term) pair.
type FieldTerm struct {
	Field string
	Term  string
}

// TermSetQuery matches documents containing any of a set of literal
// (field, term) pairs. The set is deduplicated on construction; Terms
// exposes it in a canonical order so downstream behavior never depends
// on insertion order.
type TermSetQuery struct {
	terms map[FieldTerm]struct{}
}

func (*TermSetQuery) isQuery() {}

// NewTermSetQuery builds a TermSetQuery from the given pairs, dropping
// duplicates.
func NewTermSetQuery(terms ...FieldTerm) *TermSetQuery {
	q := &TermSetQuery{terms: make(map[FieldTerm]struct{}, len(terms))}
	for _, ft := range terms {
		q.terms[ft] = struct{}{}
	}
	return q
}

// Terms returns the set sorted by (field, term).
func (q *TermSetQuery) Terms() []FieldTerm {
	out := make([]FieldTerm, 0, len(q.terms))
	for ft := range q.terms {
		out = append(out, ft)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Field != out[j].Field {
			return out[i].Field < out[j].Field
		}
		return out[i].Term < out[j].Term
	})
	return out
}

// Len returns the number of distinct pairs in the set.
func (q *TermSetQuery) Len() int { return len(q.terms) }

// Contains reports whether the pair is in the set.
func (q *TermSetQuery) Contains(ft FieldTerm) bool {
	_, ok := q.terms[ft]
	return ok
}

func (q *TermSetQuery) String() string {
	terms := q.Terms()
	parts := make([]string, len(terms))
	for i, ft := range terms {
		parts[i] = ft.Field + ":" + ft.Term
	}
	return "terms(" + strings.Join(parts, " ") + ")"
}

// gobTermSetData is a helper struct for Gob encoding/decoding TermSetQuery
// data, since the underlying set is not exported.
type gobTermSetData struct {
	Terms []FieldTerm
}

// GobEncode implements the gob.GobEncoder interface for TermSetQuery.
func (q *TermSetQuery) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(gobTermSetData{Terms: q.Terms()}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for TermSetQuery.
func (q *TermSetQuery) GobDecode(data []byte) error {
	var decoded gobTermSetData
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&decoded); err != nil {
		return err
	}
	q.terms = make(map[FieldTerm]struct{}, len(decoded.Terms))
	for _, ft := range decoded.Terms {
		q.terms[ft] = struct{}{}
	}
	return nil
}
