package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"
	"sync"

	"github.com/ViaSema/luwak/query"
)

func init() {
	// Register the concrete query AST types that may sit behind the Query
	// interface when a store is gob-encoded, and the matcher types that may
	// sit behind TermMatcher inside a multi-term query.
	gob.Register(&query.TermQuery{})
	gob.Register(&query.BooleanQuery{})
	gob.Register(&query.MultiTermQuery{})
	gob.Register(&query.DisjunctionMaxQuery{})
	gob.Register(&query.TermSetQuery{})
	gob.Register(&query.MatchAllQuery{})
	gob.Register(&query.PrefixMatcher{})
	gob.Register(&query.WildcardMatcher{})
	gob.Register(&query.RegexpMatcher{})
}

// StoredQuery is a persisted query percolated against every incoming
// document batch, plus caller-supplied metadata echoed back on matches.
type StoredQuery struct {
	ID       string
	Query    query.Query
	Metadata map[string]string
}

// QueryStore holds the registered queries of one monitor, keyed by query
// id. Registration is an upsert: storing an existing id replaces the
// previous query.
type QueryStore struct {
	Mu      sync.RWMutex
	Queries map[string]StoredQuery
}

// NewQueryStore creates an empty store.
func NewQueryStore() *QueryStore {
	return &QueryStore{Queries: make(map[string]StoredQuery)}
}

// Put stores or replaces a query.
func (qs *QueryStore) Put(sq StoredQuery) {
	qs.Mu.Lock()
	defer qs.Mu.Unlock()
	qs.Queries[sq.ID] = sq
}

// Get returns the stored query for the id, if present.
func (qs *QueryStore) Get(id string) (StoredQuery, bool) {
	qs.Mu.RLock()
	defer qs.Mu.RUnlock()
	sq, ok := qs.Queries[id]
	return sq, ok
}

// Delete removes the query for the id and reports whether it was present.
func (qs *QueryStore) Delete(id string) bool {
	qs.Mu.Lock()
	defer qs.Mu.Unlock()
	if _, ok := qs.Queries[id]; !ok {
		return false
	}
	delete(qs.Queries, id)
	return true
}

// Len returns the number of registered queries.
func (qs *QueryStore) Len() int {
	qs.Mu.RLock()
	defer qs.Mu.RUnlock()
	return len(qs.Queries)
}

// IDs returns the registered query ids in sorted order.
func (qs *QueryStore) IDs() []string {
	qs.Mu.RLock()
	defer qs.Mu.RUnlock()
	ids := make([]string, 0, len(qs.Queries))
	for id := range qs.Queries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot returns a copy of the registered queries, sorted by id, for a
// stable iteration while the store keeps accepting registrations.
func (qs *QueryStore) Snapshot() []StoredQuery {
	qs.Mu.RLock()
	defer qs.Mu.RUnlock()
	out := make([]StoredQuery, 0, len(qs.Queries))
	for _, sq := range qs.Queries {
		out = append(out, sq)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// gobQueryStoreData is a helper struct for Gob encoding/decoding
// QueryStore data. It excludes the mutex.
type gobQueryStoreData struct {
	Queries map[string]StoredQuery
}

// GobEncode implements the gob.GobEncoder interface for QueryStore.
func (qs *QueryStore) GobEncode() ([]byte, error) {
	qs.Mu.RLock()
	defer qs.Mu.RUnlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(gobQueryStoreData{Queries: qs.Queries}); err != nil {
		return nil, fmt.Errorf("failed to gob encode query store data: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for QueryStore.
func (qs *QueryStore) GobDecode(data []byte) error {
	var decoded gobQueryStoreData
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&decoded); err != nil {
		return fmt.Errorf("failed to gob decode query store data: %w", err)
	}

	qs.Mu.Lock()
	defer qs.Mu.Unlock()
	qs.Queries = decoded.Queries
	if qs.Queries == nil {
		qs.Queries = make(map[string]StoredQuery)
	}
	return nil
}
