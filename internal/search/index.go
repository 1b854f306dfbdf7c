package search

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/renderinc/blog-search/internal/blog"
)

// Matching policy
const (
	// Fuzziness allows about one edit per five characters of a query token
	Fuzziness = 0.2
	// maxFuzziness is the largest edit distance bleve accepts
	maxFuzziness = 2

	analyzerName = "blog_text"
)

// Field boosts
var Boosts = map[string]float64{
	"Title":    3,
	"Subtitle": 2,
	"Content":  1,
}

// Index wraps a Bleve search index over title, subtitle and content
type Index struct {
	index bleve.Index
}

// IndexedDocument is the searchable projection of a blog.Document
type IndexedDocument struct {
	Title    string
	Subtitle string
	Content  string
}

// Hit is one ranked match
type Hit struct {
	ID    int
	Score float64
}

// NewMemOnly creates an in-memory index
func NewMemOnly() (*Index, error) {
	indexMapping, err := buildIndexMapping()
	if err != nil {
		return nil, err
	}
	idx, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Index{index: idx}, nil
}

// Open opens or creates an on-disk Bleve index
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		indexMapping, mapErr := buildIndexMapping()
		if mapErr != nil {
			return nil, mapErr
		}
		idx, err = bleve.New(path, indexMapping)
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	return &Index{index: idx}, nil
}

// buildIndexMapping maps the three text fields to a lowercasing analyzer
// without stemming or stop words, so fuzzy and prefix terms line up with
// what a reader typed.
func buildIndexMapping() (mapping.IndexMapping, error) {
	indexMapping := bleve.NewIndexMapping()
	err := indexMapping.AddCustomAnalyzer(analyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("add analyzer: %w", err)
	}

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = analyzerName
	textFieldMapping.Store = false

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("Title", textFieldMapping)
	docMapping.AddFieldMappingsAt("Subtitle", textFieldMapping)
	docMapping.AddFieldMappingsAt("Content", textFieldMapping)

	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = analyzerName

	return indexMapping, nil
}

// Close closes the index
func (i *Index) Close() error {
	return i.index.Close()
}

// Load indexes every document by id in one batch. Documents are keyed by id,
// so loading the same corpus again replaces entries instead of adding them,
// and ids no longer in docs are removed.
func (i *Index) Load(docs []blog.Document) error {
	keep := make(map[string]struct{}, len(docs))
	batch := i.index.NewBatch()
	for _, doc := range docs {
		key := strconv.Itoa(doc.ID)
		keep[key] = struct{}{}
		indexDoc := &IndexedDocument{
			Title:    doc.Title,
			Subtitle: doc.Subtitle,
			Content:  doc.Content,
		}
		if err := batch.Index(key, indexDoc); err != nil {
			return fmt.Errorf("batch index %s: %w", key, err)
		}
	}

	existing, err := i.allIDs()
	if err != nil {
		return err
	}
	for _, key := range existing {
		if _, ok := keep[key]; !ok {
			batch.Delete(key)
		}
	}

	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	return nil
}

func (i *Index) allIDs() ([]string, error) {
	count, err := i.index.DocCount()
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	if count == 0 {
		return nil, nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), int(count), 0, false)
	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// Query returns documents matching any token of text, ranked by score.
// Each token matches fuzzily or as a prefix in every field, weighted by
// Boosts. Empty text returns nil: no ranking signal at all.
func (i *Index) Query(text string) ([]Hit, error) {
	tokens := i.tokenize(text)
	if len(tokens) == 0 {
		return nil, nil
	}

	count, err := i.index.DocCount()
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	if count == 0 {
		return []Hit{}, nil
	}

	tokenQueries := make([]query.Query, 0, len(tokens))
	for _, token := range tokens {
		tokenQueries = append(tokenQueries, tokenQuery(token))
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(tokenQueries...), int(count), 0, false)
	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		id, err := strconv.Atoi(h.ID)
		if err != nil {
			continue
		}
		hits = append(hits, Hit{ID: id, Score: h.Score})
	}

	return hits, nil
}

// tokenQuery matches one token in every field, fuzzily or as a prefix
func tokenQuery(token string) query.Query {
	fuzziness := EditDistance(token)
	fieldQueries := make([]query.Query, 0, 2*len(Boosts))

	for _, field := range []string{"Title", "Subtitle", "Content"} {
		boost := Boosts[field]

		if fuzziness == 0 {
			tq := bleve.NewTermQuery(token)
			tq.SetField(field)
			tq.SetBoost(boost)
			fieldQueries = append(fieldQueries, tq)
		} else {
			fq := bleve.NewFuzzyQuery(token)
			fq.SetField(field)
			fq.SetFuzziness(fuzziness)
			fq.SetBoost(boost)
			fieldQueries = append(fieldQueries, fq)
		}

		pq := bleve.NewPrefixQuery(token)
		pq.SetField(field)
		pq.SetBoost(boost)
		fieldQueries = append(fieldQueries, pq)
	}

	return bleve.NewDisjunctionQuery(fieldQueries...)
}

// EditDistance is the number of edits tolerated for a query token
func EditDistance(token string) int {
	d := int(math.Round(float64(utf8.RuneCountInString(token)) * Fuzziness))
	return min(d, maxFuzziness)
}

// tokenize runs text through the index analyzer and drops duplicates
func (i *Index) tokenize(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var terms []string
	if analyzer := i.index.Mapping().AnalyzerNamed(analyzerName); analyzer != nil {
		for _, tok := range analyzer.Analyze([]byte(text)) {
			terms = append(terms, string(tok.Term))
		}
	} else {
		terms = strings.Fields(strings.ToLower(text))
	}

	seen := make(map[string]struct{}, len(terms))
	tokens := terms[:0]
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}
	return tokens
}

// Count returns the number of documents in the index
func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}
