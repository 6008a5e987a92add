package api

import (
	"fmt"

	"github.com/ViaSema/luwak/query"
)

// queryNode is the JSON wire shape of a query AST node. Which fields are
// meaningful depends on Type; decodeQuery enforces that. This is structured
// decoding of an already-built tree, not query-text parsing.
type queryNode struct {
	Type       string          `json:"type"`
	Field      string          `json:"field,omitempty"`
	Term       string          `json:"term,omitempty"`
	Prefix     string          `json:"prefix,omitempty"`
	Pattern    string          `json:"pattern,omitempty"`
	TieBreaker float64         `json:"tie_breaker,omitempty"`
	Clauses    []clauseNode    `json:"clauses,omitempty"`
	Queries    []queryNode     `json:"queries,omitempty"`
	Terms      []fieldTermNode `json:"terms,omitempty"`
}

type clauseNode struct {
	Occur string    `json:"occur"`
	Query queryNode `json:"query"`
}

type fieldTermNode struct {
	Field string `json:"field"`
	Term  string `json:"term"`
}

// decodeQuery converts a wire node into the query AST.
func decodeQuery(node queryNode) (query.Query, error) {
	switch node.Type {
	case "term":
		if node.Field == "" || node.Term == "" {
			return nil, fmt.Errorf("term query requires field and term")
		}
		return &query.TermQuery{Field: node.Field, Term: node.Term}, nil

	case "boolean":
		if len(node.Clauses) == 0 {
			return nil, fmt.Errorf("boolean query requires at least one clause")
		}
		clauses := make([]query.BooleanClause, len(node.Clauses))
		for i, cn := range node.Clauses {
			occur, err := decodeOccur(cn.Occur)
			if err != nil {
				return nil, err
			}
			sub, err := decodeQuery(cn.Query)
			if err != nil {
				return nil, err
			}
			clauses[i] = query.BooleanClause{Query: sub, Occur: occur}
		}
		return &query.BooleanQuery{Clauses: clauses}, nil

	case "prefix":
		if node.Field == "" || node.Prefix == "" {
			return nil, fmt.Errorf("prefix query requires field and prefix")
		}
		return &query.MultiTermQuery{Field: node.Field, Matcher: &query.PrefixMatcher{Prefix: node.Prefix}}, nil

	case "wildcard":
		if node.Field == "" || node.Pattern == "" {
			return nil, fmt.Errorf("wildcard query requires field and pattern")
		}
		return &query.MultiTermQuery{Field: node.Field, Matcher: &query.WildcardMatcher{Pattern: node.Pattern}}, nil

	case "regexp":
		if node.Field == "" || node.Pattern == "" {
			return nil, fmt.Errorf("regexp query requires field and pattern")
		}
		return &query.MultiTermQuery{Field: node.Field, Matcher: &query.RegexpMatcher{Pattern: node.Pattern}}, nil

	case "dismax":
		if len(node.Queries) == 0 {
			return nil, fmt.Errorf("dismax query requires at least one subquery")
		}
		subs := make([]query.Query, len(node.Queries))
		for i, qn := range node.Queries {
			sub, err := decodeQuery(qn)
			if err != nil {
				return nil, err
			}
			subs[i] = sub
		}
		return &query.DisjunctionMaxQuery{Queries: subs, TieBreaker: node.TieBreaker}, nil

	case "term_set":
		if len(node.Terms) == 0 {
			return nil, fmt.Errorf("term_set query requires at least one term")
		}
		terms := make([]query.FieldTerm, len(node.Terms))
		for i, tn := range node.Terms {
			if tn.Field == "" || tn.Term == "" {
				return nil, fmt.Errorf("term_set entries require field and term")
			}
			terms[i] = query.FieldTerm{Field: tn.Field, Term: tn.Term}
		}
		return query.NewTermSetQuery(terms...), nil

	case "match_all":
		return &query.MatchAllQuery{}, nil

	case "":
		return nil, fmt.Errorf("query node is missing a type")

	default:
		return nil, fmt.Errorf("unknown query type %q", node.Type)
	}
}

func decodeOccur(s string) (query.Occur, error) {
	switch s {
	case "must":
		return query.Must, nil
	case "should":
		return query.Should, nil
	case "must_not":
		return query.MustNot, nil
	default:
		return 0, fmt.Errorf("unknown occur value %q (want must, should or must_not)", s)
	}
}
