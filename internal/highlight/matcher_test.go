package highlight

import (
	"strings"
	"testing"

	"github.com/ViaSema/luwak/config"
	"github.com/ViaSema/luwak/index"
	"github.com/ViaSema/luwak/internal/matches"
	"github.com/ViaSema/luwak/internal/rewrite"
	"github.com/ViaSema/luwak/model"
	"github.com/ViaSema/luwak/query"
)

// --- Test Helpers ---

func newTestSettings() *config.MonitorSettings {
	settings := &config.MonitorSettings{Name: "test_highlight"}
	settings.ApplyDefaults()
	return settings
}

func setupTestMatcher(t *testing.T, settings *config.MonitorSettings, docs ...model.Document) (*Matcher, *matches.Store[Match]) {
	t.Helper()
	if settings == nil {
		settings = newTestSettings()
	}
	batch, err := index.NewDocumentBatch(docs, settings)
	if err != nil {
		t.Fatalf("failed to build document batch: %v", err)
	}
	store := matches.NewStore(MergeMatches)
	matcher, err := NewMatcher(batch, rewrite.SpanRewriter{}, store)
	if err != nil {
		t.Fatalf("failed to create matcher: %v", err)
	}
	return matcher, store
}

func bodyDoc(id, body string) model.Document {
	return model.Document{"documentID": id, "body": body}
}

// --- Test Cases ---

func TestNewMatcher(t *testing.T) {
	batch, err := index.NewDocumentBatch(nil, newTestSettings())
	if err != nil {
		t.Fatalf("failed to build empty batch: %v", err)
	}
	store := matches.NewStore(MergeMatches)

	if _, err := NewMatcher(nil, rewrite.SpanRewriter{}, store); err == nil {
		t.Error("NewMatcher() with nil batch, wantErr, got nil")
	}
	if _, err := NewMatcher(batch, nil, store); err == nil {
		t.Error("NewMatcher() with nil rewriter, wantErr, got nil")
	}
	if _, err := NewMatcher(batch, rewrite.SpanRewriter{}, nil); err == nil {
		t.Error("NewMatcher() with nil store, wantErr, got nil")
	}
}

func TestMatchQuerySkipsWhenNothingMatches(t *testing.T) {
	matcher, store := setupTestMatcher(t, nil, bodyDoc("d1", "the dog barked"))

	outcome, err := matcher.MatchQuery("q1", &query.TermQuery{Field: "body", Term: "cat"})
	if err != nil {
		t.Fatalf("MatchQuery() error = %v", err)
	}
	if outcome != OutcomeSkipped {
		t.Errorf("outcome = %v, want OutcomeSkipped", outcome)
	}
	if store.Len() != 0 {
		t.Errorf("store has %d entries, want 0: a zero-count query emits nothing at all", store.Len())
	}
}

func TestMatchQueryHighlights(t *testing.T) {
	// cat is token 2 at offsets 10-13, dog token 5 at offsets 30-33.
	doc := bodyDoc("doc-1", "aaaa bbbb cat dddddd eeeeeeee dog")
	matcher, store := setupTestMatcher(t, nil, doc)

	q := &query.BooleanQuery{Clauses: []query.BooleanClause{
		{Query: &query.TermQuery{Field: "body", Term: "cat"}, Occur: query.Must},
		{Query: &query.TermQuery{Field: "body", Term: "dog"}, Occur: query.Should},
	}}

	outcome, err := matcher.MatchQuery("q1", q)
	if err != nil {
		t.Fatalf("MatchQuery() error = %v", err)
	}
	if outcome != OutcomeHighlighted {
		t.Errorf("outcome = %v, want OutcomeHighlighted", outcome)
	}
	if store.Len() != 1 {
		t.Fatalf("store has %d entries, want exactly 1", store.Len())
	}

	match, ok := store.Get(matches.Key{QueryID: "q1", DocID: "doc-1"})
	if !ok {
		t.Fatal("no match stored for (q1, doc-1)")
	}
	if match.Err != nil {
		t.Errorf("match.Err = %v, want nil", match.Err)
	}
	want := []Hit{
		{Field: "body", StartPosition: 2, EndPosition: 2, StartOffset: 10, EndOffset: 13},
		{Field: "body", StartPosition: 5, EndPosition: 5, StartOffset: 30, EndOffset: 33},
	}
	if match.HitCount() != len(want) {
		t.Fatalf("HitCount() = %d, want %d: %v", match.HitCount(), len(want), match.Hits)
	}
	for _, w := range want {
		found := false
		for _, h := range match.Hits {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected hit %+v not present in %v", w, match.Hits)
		}
	}
}

func TestMatchQueryFallback(t *testing.T) {
	matcher, store := setupTestMatcher(t, nil,
		bodyDoc("doc-5", "anything"),
		bodyDoc("doc-7", "at all"),
	)

	outcome, err := matcher.MatchQuery("q1", &query.MatchAllQuery{})
	if err != nil {
		t.Fatalf("MatchQuery() error = %v: rewrite failures must never escape", err)
	}
	if outcome != OutcomeFallback {
		t.Errorf("outcome = %v, want OutcomeFallback", outcome)
	}
	if store.Len() != 2 {
		t.Fatalf("store has %d entries, want 2 degraded matches", store.Len())
	}

	for _, docID := range []string{"doc-5", "doc-7"} {
		match, ok := store.Get(matches.Key{QueryID: "q1", DocID: docID})
		if !ok {
			t.Fatalf("no degraded match for %s", docID)
		}
		if match.HitCount() != 0 {
			t.Errorf("%s: HitCount() = %d, want 0", docID, match.HitCount())
		}
		if match.Err == nil {
			t.Errorf("%s: Err = nil, want the rewrite error", docID)
		} else if !strings.Contains(match.Err.Error(), "MatchAllQuery") {
			t.Errorf("%s: error %q does not name the variant", docID, match.Err)
		}
	}
}

func TestMatchQueryIsolatesPerDocumentFaults(t *testing.T) {
	settings := newTestSettings()
	settings.MaxTermExpansions = 1
	matcher, store := setupTestMatcher(t, settings,
		bodyDoc("doc-over", "cat cot"),
		bodyDoc("doc-ok", "cat"),
	)

	q := &query.MultiTermQuery{Field: "body", Matcher: &query.PrefixMatcher{Prefix: "c"}}
	outcome, err := matcher.MatchQuery("q1", q)
	if err != nil {
		t.Fatalf("MatchQuery() error = %v: one document's fault must not fail the query", err)
	}
	if outcome != OutcomeHighlighted {
		t.Errorf("outcome = %v, want OutcomeHighlighted", outcome)
	}

	over, ok := store.Get(matches.Key{QueryID: "q1", DocID: "doc-over"})
	if !ok {
		t.Fatal("faulted document was not reported at all")
	}
	if over.Err == nil {
		t.Error("faulted document match has no error")
	}

	okMatch, found := store.Get(matches.Key{QueryID: "q1", DocID: "doc-ok"})
	if !found {
		t.Fatal("healthy document missing from store")
	}
	if okMatch.Err != nil {
		t.Errorf("healthy document has error %v, want nil", okMatch.Err)
	}
	if okMatch.HitCount() != 1 {
		t.Errorf("healthy document HitCount() = %d, want 1", okMatch.HitCount())
	}
}

func TestMatchQueryPropagatesBatchFaults(t *testing.T) {
	matcher, store := setupTestMatcher(t, nil, bodyDoc("d1", "cat"))

	q := &query.MultiTermQuery{Field: "body", Matcher: &query.RegexpMatcher{Pattern: "ca("}}
	if _, err := matcher.MatchQuery("q1", q); err == nil {
		t.Error("MatchQuery() with a broken matcher, wantErr, got nil")
	}
	if store.Len() != 0 {
		t.Errorf("store has %d entries, want 0", store.Len())
	}
}

func TestMatchQueryMergesAcrossPasses(t *testing.T) {
	matcher, store := setupTestMatcher(t, nil, bodyDoc("d1", "cat"))
	q := &query.TermQuery{Field: "body", Term: "cat"}

	for i := 0; i < 2; i++ {
		if _, err := matcher.MatchQuery("q1", q); err != nil {
			t.Fatalf("MatchQuery() pass %d error = %v", i, err)
		}
	}

	if store.Len() != 1 {
		t.Fatalf("store has %d entries, want 1 merged entry", store.Len())
	}
	match, _ := store.Get(matches.Key{QueryID: "q1", DocID: "d1"})
	if match.HitCount() != 2 {
		t.Errorf("HitCount() = %d, want 2: both passes' observations must survive the merge", match.HitCount())
	}
}
