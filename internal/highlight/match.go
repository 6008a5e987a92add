// Package highlight extracts exact hit positions for stored queries
// matching a document batch. A query is rewritten into its span form,
// evaluated document-at-a-time, and every leaf term occurrence becomes a
// Hit on that document's match record. Queries that cannot be made
// position-aware still report which documents matched, with an error
// marker instead of positions.
package highlight

// Hit is one term occurrence that contributed to a match: the field it
// appeared in, its token positions and the byte offsets usable for
// highlighting (EndOffset exclusive).
type Hit struct {
	Field         string `json:"field"`
	StartPosition int    `json:"start_position"`
	EndPosition   int    `json:"end_position"`
	StartOffset   int    `json:"start_offset"`
	EndOffset     int    `json:"end_offset"`
}

// Match records that one stored query matched one document of the batch,
// with every hit observed while walking that document's postings. Hits are
// unordered and may contain duplicates. A non-nil Err means the hit set
// may be incomplete: either the query could not be rewritten at all, or
// walking this document's postings faulted partway through.
type Match struct {
	QueryID string
	DocID   string
	Hits    []Hit
	Err     error
}

// AddHit appends one observed occurrence.
func (m *Match) AddHit(field string, startPosition, endPosition, startOffset, endOffset int) {
	m.Hits = append(m.Hits, Hit{
		Field:         field,
		StartPosition: startPosition,
		EndPosition:   endPosition,
		StartOffset:   startOffset,
		EndOffset:     endOffset,
	})
}

// HitCount returns the number of hits observed.
func (m *Match) HitCount() int { return len(m.Hits) }

// MergeMatches combines two observations of the same (query, document)
// pair, e.g. from a document spanning multiple evaluation passes. No hit
// from either side is discarded; duplicates across the two sides stay
// separate values. When both sides carry an error the existing one wins
// (first error encountered is kept).
func MergeMatches(existing, incoming Match) Match {
	merged := Match{
		QueryID: existing.QueryID,
		DocID:   existing.DocID,
		Hits:    make([]Hit, 0, len(existing.Hits)+len(incoming.Hits)),
		Err:     existing.Err,
	}
	merged.Hits = append(merged.Hits, existing.Hits...)
	merged.Hits = append(merged.Hits, incoming.Hits...)
	if merged.Err == nil {
		merged.Err = incoming.Err
	}
	return merged
}
