package model

import (
	"fmt"
	"strings"
)

// Category is the closed three-way classification assigned to an email.
// The set is fixed; adding a category means touching every dispatch site.
type Category string

const (
	// CategoryNonEssential marks promotional or low-value mail that is
	// discarded after a copy is stored.
	CategoryNonEssential Category = "non_essential"

	// CategorySaveAndSummarize marks technical or reference content that is
	// archived together with a generated summary before being discarded.
	CategorySaveAndSummarize Category = "save_and_summarize"

	// CategoryImportant marks mail that needs human attention; it stays in
	// the inbox and is only marked read.
	CategoryImportant Category = "important"
)

// ParseCategory maps a classifier-provided string onto a Category.
// Matching is case-insensitive and ignores surrounding whitespace; anything
// outside the closed set is an error, never coerced to a default.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryNonEssential:
		return CategoryNonEssential, nil
	case CategorySaveAndSummarize:
		return CategorySaveAndSummarize, nil
	case CategoryImportant:
		return CategoryImportant, nil
	default:
		return "", fmt.Errorf("unknown category %q", s)
	}
}

// Valid reports whether c is one of the three known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryNonEssential, CategorySaveAndSummarize, CategoryImportant:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
