// Package api provides the HTTP surface of the percolation monitor:
// stored query management and batch matching.
package api

import (
	"fmt"
	"strings"

	"github.com/ViaSema/luwak/model"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateQueryID validates a stored query id.
func ValidateQueryID(queryID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if queryID == "" {
		result.AddError("id", "Query id is required")
		return result
	}
	if strings.TrimSpace(queryID) != queryID {
		result.AddError("id", "Query id cannot have leading or trailing whitespace")
	}
	return result
}

// ValidateDocuments validates a percolation batch: it must be non-empty
// and every document must carry a documentID.
func ValidateDocuments(docs []model.Document) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(docs) == 0 {
		result.AddError("documents", "At least one document is required")
		return result
	}
	for i, doc := range docs {
		if _, ok := doc.GetDocumentID(); !ok {
			result.AddError("documents",
				fmt.Sprintf("Document at position %d is missing a non-empty documentID", i))
		}
	}
	return result
}
