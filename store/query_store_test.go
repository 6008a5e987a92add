package store

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ViaSema/luwak/query"
)

func termQuery(field, term string) query.Query {
	return &query.TermQuery{Field: field, Term: term}
}

func TestQueryStorePutGetDelete(t *testing.T) {
	qs := NewQueryStore()

	qs.Put(StoredQuery{ID: "q1", Query: termQuery("body", "cat")})
	qs.Put(StoredQuery{ID: "q2", Query: termQuery("body", "dog")})
	assert.Equal(t, 2, qs.Len())

	sq, ok := qs.Get("q1")
	require.True(t, ok)
	assert.Equal(t, "q1", sq.ID)

	_, ok = qs.Get("missing")
	assert.False(t, ok)

	assert.True(t, qs.Delete("q1"))
	assert.False(t, qs.Delete("q1"), "second delete of the same id")
	assert.Equal(t, 1, qs.Len())
}

func TestQueryStoreUpsert(t *testing.T) {
	qs := NewQueryStore()
	qs.Put(StoredQuery{ID: "q1", Query: termQuery("body", "cat")})
	qs.Put(StoredQuery{ID: "q1", Query: termQuery("body", "dog")})

	assert.Equal(t, 1, qs.Len())
	sq, ok := qs.Get("q1")
	require.True(t, ok)
	assert.Equal(t, "dog", sq.Query.(*query.TermQuery).Term)
}

func TestQueryStoreIDsAndSnapshotSorted(t *testing.T) {
	qs := NewQueryStore()
	for _, id := range []string{"zebra", "apple", "mango"} {
		qs.Put(StoredQuery{ID: id, Query: termQuery("body", id)})
	}

	assert.Equal(t, []string{"apple", "mango", "zebra"}, qs.IDs())

	snap := qs.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "apple", snap[0].ID)
	assert.Equal(t, "mango", snap[1].ID)
	assert.Equal(t, "zebra", snap[2].ID)
}

func TestQueryStoreSnapshotIsACopy(t *testing.T) {
	qs := NewQueryStore()
	qs.Put(StoredQuery{ID: "q1", Query: termQuery("body", "cat")})

	snap := qs.Snapshot()
	qs.Put(StoredQuery{ID: "q2", Query: termQuery("body", "dog")})

	assert.Len(t, snap, 1, "snapshot must not see later registrations")
}

func TestQueryStoreGobRoundTrip(t *testing.T) {
	qs := NewQueryStore()
	qs.Put(StoredQuery{
		ID: "q-bool",
		Query: &query.BooleanQuery{Clauses: []query.BooleanClause{
			{Query: termQuery("body", "cat"), Occur: query.Must},
			{Query: termQuery("body", "dog"), Occur: query.MustNot},
		}},
		Metadata: map[string]string{"owner": "alerts"},
	})
	qs.Put(StoredQuery{
		ID: "q-prefix",
		Query: &query.MultiTermQuery{
			Field:   "title",
			Matcher: &query.PrefixMatcher{Prefix: "intro"},
		},
	})
	qs.Put(StoredQuery{
		ID:    "q-set",
		Query: query.NewTermSetQuery(query.FieldTerm{Field: "body", Term: "x"}, query.FieldTerm{Field: "body", Term: "y"}),
	})

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(qs))

	decoded := NewQueryStore()
	require.NoError(t, gob.NewDecoder(&buf).Decode(decoded))

	assert.Equal(t, 3, decoded.Len())

	boolQ, ok := decoded.Get("q-bool")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"owner": "alerts"}, boolQ.Metadata)
	bq, ok := boolQ.Query.(*query.BooleanQuery)
	require.True(t, ok)
	require.Len(t, bq.Clauses, 2)
	assert.Equal(t, query.Must, bq.Clauses[0].Occur)
	assert.Equal(t, query.MustNot, bq.Clauses[1].Occur)

	prefixQ, ok := decoded.Get("q-prefix")
	require.True(t, ok)
	mtq, ok := prefixQ.Query.(*query.MultiTermQuery)
	require.True(t, ok)
	pm, ok := mtq.Matcher.(*query.PrefixMatcher)
	require.True(t, ok)
	assert.Equal(t, "intro", pm.Prefix)

	setQ, ok := decoded.Get("q-set")
	require.True(t, ok)
	tsq, ok := setQ.Query.(*query.TermSetQuery)
	require.True(t, ok)
	assert.Equal(t, 2, tsq.Len())
	assert.True(t, tsq.Contains(query.FieldTerm{Field: "body", Term: "x"}))
}

func TestQueryStoreDecodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(NewQueryStore()))

	decoded := NewQueryStore()
	require.NoError(t, gob.NewDecoder(&buf).Decode(decoded))
	assert.Equal(t, 0, decoded.Len())

	// A decoded store must stay usable.
	decoded.Put(StoredQuery{ID: "q1", Query: termQuery("body", "cat")})
	assert.Equal(t, 1, decoded.Len())
}
