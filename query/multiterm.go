package query

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"sync"
)

// TermMatcher decides whether an indexed term belongs to a multi-term
// query's expansion. Matching happens lazily at search time against the
// batch vocabulary; matchers never enumerate terms up front.
type TermMatcher interface {
	MatchesTerm(term string) (bool, error)
	fmt.Stringer
}

// MultiTermQuery matches documents containing any term accepted by the
// matcher in the given field.
type MultiTermQuery struct {
	Field   string
	Matcher TermMatcher
}

func (*MultiTermQuery) isQuery() {}

func (q *MultiTermQuery) String() string {
	return fmt.Sprintf("%s:%s", q.Field, q.Matcher)
}

// PrefixMatcher accepts terms starting with Prefix.
type PrefixMatcher struct {
	Prefix string
}

func (m *PrefixMatcher) MatchesTerm(term string) (bool, error) {
	return strings.HasPrefix(term, m.Prefix), nil
}

func (m *PrefixMatcher) String() string { return m.Prefix + "*" }

// WildcardMatcher accepts terms matching a shell-style pattern
// ('*' any run, '?' any single character).
type WildcardMatcher struct {
	Pattern string
}

func (m *WildcardMatcher) MatchesTerm(term string) (bool, error) {
	ok, err := path.Match(m.Pattern, term)
	if err != nil {
		return false, fmt.Errorf("invalid wildcard pattern %q: %w", m.Pattern, err)
	}
	return ok, nil
}

func (m *WildcardMatcher) String() string { return m.Pattern }

// RegexpMatcher accepts terms fully matching a regular expression.
// The pattern is compiled on first use so the matcher stays a plain
// serializable value until then.
type RegexpMatcher struct {
	Pattern string

	once sync.Once
	re   *regexp.Regexp
	err  error
}

func (m *RegexpMatcher) compile() {
	m.re, m.err = regexp.Compile("^(?:" + m.Pattern + ")$")
}

func (m *RegexpMatcher) MatchesTerm(term string) (bool, error) {
	m.once.Do(m.compile)
	if m.err != nil {
		return false, fmt.Errorf("invalid term regexp %q: %w", m.Pattern, m.err)
	}
	return m.re.MatchString(term), nil
}

func (m *RegexpMatcher) String() string { return "/" + m.Pattern + "/" }
