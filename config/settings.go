// Package config provides configuration structures for the query engine.
// It defines index settings, analysis options, and phrase expansion thresholds.
package config

import (
	"strings"
)

// IndexSettings contains all configuration options for a search index.
// This includes which fields are searchable, which are filterable, and the
// thresholds used by natural-language phrase expansion.
type IndexSettings struct {
	Name             string   `json:"name"`              // Unique name for the index
	SearchableFields []string `json:"searchable_fields"` // Fields whose text is analyzed and indexed (e.g., ["title", "description"])
	FilterableFields []string `json:"filterable_fields"` // Fields that can be used in filter conditions (exact match, range)

	// Phrase expansion settings. A term is excluded from an expanded phrase query
	// when it matches at least FrequencyThreshold of the candidate documents,
	// unless fewer than MinCandidates documents are available, in which case
	// frequency statistics are considered meaningless and no exclusion occurs.
	MinCandidates      int     `json:"min_candidates"`      // Minimum candidate count before frequency filtering applies (default 5)
	FrequencyThreshold float64 `json:"frequency_threshold"` // Document-frequency exclusion threshold, 0 < t <= 1 (default 0.5)

	DisableStopWords bool `json:"disable_stop_words,omitempty"` // When true, stop words are indexed and searchable
	DisableStemming  bool `json:"disable_stemming,omitempty"`   // When true, terms are indexed without stemming
}

// ValidateFieldNames validates field names for basic requirements.
func (settings *IndexSettings) ValidateFieldNames() []string {
	var conflicts []string

	conflicts = append(conflicts, checkDuplicates("searchable_fields", settings.SearchableFields)...)
	conflicts = append(conflicts, checkDuplicates("filterable_fields", settings.FilterableFields)...)

	allFields := make([]string, 0, len(settings.SearchableFields)+len(settings.FilterableFields))
	allFields = append(allFields, settings.SearchableFields...)
	allFields = append(allFields, settings.FilterableFields...)

	for _, field := range allFields {
		if strings.TrimSpace(field) == "" {
			conflicts = append(conflicts, "Field name cannot be empty or whitespace-only")
		}
	}

	if settings.MinCandidates < 0 {
		conflicts = append(conflicts, "min_candidates cannot be negative")
	}
	if settings.FrequencyThreshold < 0 || settings.FrequencyThreshold > 1 {
		conflicts = append(conflicts, "frequency_threshold must be between 0 and 1")
	}

	return conflicts
}

// checkDuplicates checks for duplicate values in a slice and returns error messages
func checkDuplicates(fieldName string, fields []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, field := range fields {
		if seen[field] {
			errors = append(errors, "Duplicate field '"+field+"' found in "+fieldName)
		}
		seen[field] = true
	}

	return errors
}

// ApplyDefaults applies default values to the index settings
func (settings *IndexSettings) ApplyDefaults() {
	if settings.MinCandidates == 0 {
		settings.MinCandidates = 5
	}
	if settings.FrequencyThreshold == 0 {
		settings.FrequencyThreshold = 0.5
	}

	// Initialize empty slices if nil to prevent nil pointer issues
	if settings.SearchableFields == nil {
		settings.SearchableFields = []string{}
	}
	if settings.FilterableFields == nil {
		settings.FilterableFields = []string{}
	}
}
