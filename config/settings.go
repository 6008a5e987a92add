// Package config provides configuration structures for the percolation
// monitor: per-monitor matching settings and the server configuration
// loaded from a YAML file with environment overrides.
package config

import (
	"fmt"
	"strings"
)

const (
	// DefaultMaxTermExpansions caps how many distinct terms a multi-term
	// matcher may expand to within a single document's field.
	DefaultMaxTermExpansions = 1024

	// DefaultMatchParallelism bounds how many stored queries are evaluated
	// concurrently against one batch.
	DefaultMatchParallelism = 8
)

// MonitorSettings contains the configuration for a percolation monitor.
//
// IndexedFields lists the document fields tokenized into the per-batch
// index. When empty, every string-valued field of each document is indexed,
// so stored queries may reference any field.
type MonitorSettings struct {
	Name              string   `json:"name" yaml:"name"`
	IndexedFields     []string `json:"indexed_fields" yaml:"indexedFields"`
	MaxTermExpansions int      `json:"max_term_expansions" yaml:"maxTermExpansions"`
	MatchParallelism  int      `json:"match_parallelism" yaml:"matchParallelism"`
}

// ApplyDefaults fills zero-valued limits with their defaults.
func (s *MonitorSettings) ApplyDefaults() {
	if s.MaxTermExpansions <= 0 {
		s.MaxTermExpansions = DefaultMaxTermExpansions
	}
	if s.MatchParallelism <= 0 {
		s.MatchParallelism = DefaultMatchParallelism
	}
}

// Validate checks the settings for basic requirements and returns a list
// of conflicts found.
func (s *MonitorSettings) Validate() []string {
	var conflicts []string

	if strings.TrimSpace(s.Name) != s.Name {
		conflicts = append(conflicts, "name cannot have leading or trailing whitespace")
	}

	seen := make(map[string]bool)
	for _, field := range s.IndexedFields {
		if field == "" {
			conflicts = append(conflicts, "indexed_fields contains an empty field name")
			continue
		}
		if seen[field] {
			conflicts = append(conflicts, fmt.Sprintf("duplicate field '%s' in indexed_fields", field))
		}
		seen[field] = true
	}

	return conflicts
}
