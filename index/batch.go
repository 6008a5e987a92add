// Package index builds a positional inverted index over a batch of
// incoming documents and evaluates queries against it: plain boolean
// evaluation for existence checks and span evaluation with per-document
// leaf walks for highlighting.
package index

import (
	"fmt"
	"sort"

	"github.com/ViaSema/luwak/config"
	"github.com/ViaSema/luwak/internal/tokenizer"
	"github.com/ViaSema/luwak/model"
)

// DocumentBatch is an immutable index over one batch of documents.
// Internal document ids are assigned in batch order starting at zero, and
// every search primitive visits documents in ascending id order.
type DocumentBatch struct {
	settings *config.MonitorSettings

	index    map[string]PostingList         // term -> postings across the batch
	docTerms map[uint32]map[string][]string // docID -> field -> distinct terms, first-seen order
	docIDs   []uint32                       // ascending
	external map[uint32]string              // docID -> caller-visible document identifier
}

// NewDocumentBatch tokenizes and indexes the given documents. Every
// document must carry a documentID. When settings name no indexed fields,
// all string-valued fields are indexed.
func NewDocumentBatch(docs []model.Document, settings *config.MonitorSettings) (*DocumentBatch, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}

	b := &DocumentBatch{
		settings: settings,
		index:    make(map[string]PostingList),
		docTerms: make(map[uint32]map[string][]string, len(docs)),
		docIDs:   make([]uint32, 0, len(docs)),
		external: make(map[uint32]string, len(docs)),
	}

	for i, doc := range docs {
		externalID, ok := doc.GetDocumentID()
		if !ok {
			return nil, fmt.Errorf("document at position %d is missing a documentID", i)
		}
		docID := uint32(i) // #nosec G115 -- batch sizes are far below uint32 range
		b.docIDs = append(b.docIDs, docID)
		b.external[docID] = externalID
		b.docTerms[docID] = make(map[string][]string)

		for _, field := range b.fieldsOf(doc) {
			text, ok := doc.TextField(field)
			if !ok {
				continue
			}
			b.addField(docID, field, text)
		}
	}
	return b, nil
}

// fieldsOf returns the fields of doc to index, in deterministic order.
func (b *DocumentBatch) fieldsOf(doc model.Document) []string {
	if len(b.settings.IndexedFields) > 0 {
		return b.settings.IndexedFields
	}
	fields := make([]string, 0, len(doc))
	for name, value := range doc {
		if name == "documentID" {
			continue
		}
		if _, ok := value.(string); ok {
			fields = append(fields, name)
		}
	}
	sort.Strings(fields)
	return fields
}

func (b *DocumentBatch) addField(docID uint32, field, text string) {
	seen := make(map[string]*PostingEntry)
	for _, tok := range tokenizer.Tokenize(text) {
		entry, ok := seen[tok.Term]
		if !ok {
			b.index[tok.Term] = append(b.index[tok.Term], PostingEntry{DocID: docID, Field: field})
			list := b.index[tok.Term]
			entry = &list[len(list)-1]
			seen[tok.Term] = entry
			b.docTerms[docID][field] = append(b.docTerms[docID][field], tok.Term)
		}
		entry.Occurrences = append(entry.Occurrences, Occurrence{
			Position:    tok.Position,
			StartOffset: tok.StartOffset,
			EndOffset:   tok.EndOffset,
		})
	}
}

// Len returns the number of documents in the batch.
func (b *DocumentBatch) Len() int { return len(b.docIDs) }

// ResolveDocID maps a batch-internal document id back to the
// caller-visible document identifier.
func (b *DocumentBatch) ResolveDocID(docID uint32) string {
	return b.external[docID]
}

// hasTerm reports whether the document contains the exact term in the field.
func (b *DocumentBatch) hasTerm(docID uint32, field, term string) bool {
	for _, entry := range b.index[term] {
		if entry.DocID == docID && entry.Field == field {
			return true
		}
	}
	return false
}

// occurrences returns every occurrence of the term in the document field.
func (b *DocumentBatch) occurrences(docID uint32, field, term string) []Occurrence {
	for _, entry := range b.index[term] {
		if entry.DocID == docID && entry.Field == field {
			return entry.Occurrences
		}
	}
	return nil
}
