package model

import "testing"

func TestParseCategoryAcceptsKnownValues(t *testing.T) {
	cases := map[string]Category{
		"non_essential":       CategoryNonEssential,
		"NON_ESSENTIAL":       CategoryNonEssential,
		" save_and_summarize": CategorySaveAndSummarize,
		"Save_And_Summarize":  CategorySaveAndSummarize,
		"important":           CategoryImportant,
		"IMPORTANT ":          CategoryImportant,
	}

	for input, want := range cases {
		got, err := ParseCategory(input)
		if err != nil {
			t.Fatalf("ParseCategory(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseCategory(%q): expected %s, got %s", input, want, got)
		}
	}
}

func TestParseCategoryRejectsUnknownValues(t *testing.T) {
	for _, input := range []string{"", "spam", "non-essential", "save", "IMPORTANT!"} {
		if _, err := ParseCategory(input); err == nil {
			t.Fatalf("ParseCategory(%q): expected error", input)
		}
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range []Category{CategoryNonEssential, CategorySaveAndSummarize, CategoryImportant} {
		if !c.Valid() {
			t.Fatalf("expected %s to be valid", c)
		}
	}
	if Category("junk").Valid() {
		t.Fatal("expected junk to be invalid")
	}
	if Category("").Valid() {
		t.Fatal("expected empty category to be invalid")
	}
}
