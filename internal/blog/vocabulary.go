package blog

import "time"

// LanguageMeta is the display data of a language facet entry
type LanguageMeta struct {
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// Dates holds every known date of the corpus
type Dates struct {
	Posted  []time.Time `json:"posted"`
	Updated []time.Time `json:"updated"`
}

// Vocabulary is the set of facet values found across a corpus.
// Map-backed facets keep first-seen order in the accompanying slices so the
// facet checklists render deterministically.
type Vocabulary struct {
	Tags          []string                `json:"tags"`
	Authors       map[string]string       `json:"authors"` // name -> image
	AuthorOrder   []string                `json:"-"`
	Languages     map[string]LanguageMeta `json:"languages"` // code -> meta
	LanguageOrder []string                `json:"-"`
	Dates         Dates                   `json:"dates"`
}

// NewVocabulary builds the vocabulary from scratch in a single pass over docs.
// Duplicate author names and language codes keep the last value seen.
func NewVocabulary(docs []Document) *Vocabulary {
	v := &Vocabulary{
		Authors:   make(map[string]string),
		Languages: make(map[string]LanguageMeta),
	}
	seenTags := make(map[string]struct{})

	for i := range docs {
		doc := &docs[i]

		for _, t := range doc.Tags {
			if _, ok := seenTags[t]; !ok {
				seenTags[t] = struct{}{}
				v.Tags = append(v.Tags, t)
			}
		}

		for _, a := range doc.Authors {
			if _, ok := v.Authors[a.Name]; !ok {
				v.AuthorOrder = append(v.AuthorOrder, a.Name)
			}
			v.Authors[a.Name] = a.Image
		}

		if _, ok := v.Languages[doc.Language.Code]; !ok {
			v.LanguageOrder = append(v.LanguageOrder, doc.Language.Code)
		}
		v.Languages[doc.Language.Code] = LanguageMeta{Name: doc.Language.Name, Flag: doc.Language.Flag}

		if doc.DatePosted != nil {
			v.Dates.Posted = append(v.Dates.Posted, *doc.DatePosted)
		}
		if doc.DateUpdated != nil {
			v.Dates.Updated = append(v.Dates.Updated, *doc.DateUpdated)
		}
	}

	return v
}
