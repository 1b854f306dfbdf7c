package blog

import (
	"testing"
	"time"
)

func TestNewVocabulary(t *testing.T) {
	posted := time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)
	docs := []Document{
		{
			ID:       0,
			Tags:     []string{"go", "cache", "go"},
			Authors:  []Author{{Name: "Ann", Image: "/ann-old.png"}},
			Language: Language{Code: "en", Name: "English", Flag: "🇬🇧"},
		},
		{
			ID:         1,
			Tags:       []string{"rust", "go"},
			Authors:    []Author{{Name: "Bob", Image: "/bob.png"}, {Name: "Ann", Image: "/ann.png"}},
			Language:   Language{Code: "vi", Name: "Tiếng Việt", Flag: "🇻🇳"},
			DatePosted: &posted,
		},
	}

	v := NewVocabulary(docs)

	wantTags := []string{"go", "cache", "rust"}
	if len(v.Tags) != len(wantTags) {
		t.Fatalf("expected tags %v, got %v", wantTags, v.Tags)
	}
	for i := range wantTags {
		if v.Tags[i] != wantTags[i] {
			t.Errorf("tag %d: expected %s, got %s", i, wantTags[i], v.Tags[i])
		}
	}

	if v.Authors["Ann"] != "/ann.png" {
		t.Errorf("expected last image for Ann, got %s", v.Authors["Ann"])
	}
	if len(v.AuthorOrder) != 2 || v.AuthorOrder[0] != "Ann" || v.AuthorOrder[1] != "Bob" {
		t.Errorf("unexpected author order: %v", v.AuthorOrder)
	}

	if len(v.Languages) != 2 || v.Languages["vi"].Flag != "🇻🇳" {
		t.Errorf("unexpected languages: %v", v.Languages)
	}

	if len(v.Dates.Posted) != 1 || len(v.Dates.Updated) != 0 {
		t.Errorf("unexpected dates: %+v", v.Dates)
	}
}

func TestNewVocabularyEmpty(t *testing.T) {
	v := NewVocabulary(nil)
	if len(v.Tags) != 0 || len(v.Authors) != 0 || len(v.Languages) != 0 {
		t.Errorf("expected empty vocabulary, got %+v", v)
	}
}
