package index

// Occurrence records a single appearance of a term in a document field:
// its token position and the byte offsets of the original text it came
// from (EndOffset exclusive).
type Occurrence struct {
	Position    int
	StartOffset int
	EndOffset   int
}

// PostingEntry holds every occurrence of one term in one field of one
// document of the batch.
type PostingEntry struct {
	DocID       uint32
	Field       string
	Occurrences []Occurrence
}

// PostingList is a slice of PostingEntry, ordered by (DocID, Field) as
// documents are added to the batch.
type PostingList []PostingEntry
