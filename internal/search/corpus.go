package search

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/growthplan/internal/errors"
)

// Entry is one document of a local corpus.
type Entry struct {
	Title         string   `yaml:"title"`
	SourceLocator string   `yaml:"source_locator"`
	Snippet       string   `yaml:"snippet"`
	Tags          []string `yaml:"tags,omitempty"`
}

// Corpus is the on-disk corpus file format.
type Corpus struct {
	Documents []Entry `yaml:"documents"`
}

// Keyword weights. A title hit counts most, then snippet, then tag.
const (
	titleWeight   = 10.0
	exactBonus    = 5.0
	snippetWeight = 5.0
	tagWeight     = 3.0
)

// CorpusProvider ranks a fixed set of documents by keyword overlap with the query.
type CorpusProvider struct {
	entries []Entry
}

// NewCorpusProvider creates a provider over entries.
func NewCorpusProvider(entries []Entry) *CorpusProvider {
	return &CorpusProvider{entries: entries}
}

// LoadCorpus reads a YAML corpus file.
func LoadCorpus(path string) (*CorpusProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFoundError(path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("failed to read corpus %s", path), err)
	}

	var c Corpus
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.NewFileUnmarshalError(path, "YAML", err)
	}
	for i, e := range c.Documents {
		if strings.TrimSpace(e.Title) == "" {
			return nil, errors.New(errors.ErrCodeSearchConfig, fmt.Sprintf("corpus %s: document %d has no title", path, i))
		}
	}
	return NewCorpusProvider(c.Documents), nil
}

// Len returns the number of documents in the corpus.
func (p *CorpusProvider) Len() int {
	return len(p.entries)
}

// Search implements Provider.
func (p *CorpusProvider) Search(ctx context.Context, query string, maxResults int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	terms := tokenize(query)
	if len(terms) == 0 {
		return nil, nil
	}
	maxScore := float64(len(terms))*(titleWeight+snippetWeight+tagWeight) + exactBonus
	queryLower := strings.ToLower(strings.TrimSpace(query))

	type scored struct {
		entry Entry
		score float64
	}
	var hits []scored
	for _, e := range p.entries {
		s := score(e, terms, queryLower)
		if s > 0 {
			hits = append(hits, scored{entry: e, score: s})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})
	if maxResults > 0 && len(hits) > maxResults {
		hits = hits[:maxResults]
	}

	docs := make([]Document, len(hits))
	for i, h := range hits {
		docs[i] = Document{
			Title:         h.entry.Title,
			SourceLocator: h.entry.SourceLocator,
			Snippet:       h.entry.Snippet,
			Relevance:     ClampRelevance(h.score / maxScore),
		}
	}
	return docs, nil
}

func score(e Entry, terms []string, queryLower string) float64 {
	title := strings.ToLower(e.Title)
	snippet := strings.ToLower(e.Snippet)

	s := 0.0
	if title == queryLower {
		s += exactBonus
	}
	for _, term := range terms {
		if strings.Contains(title, term) {
			s += titleWeight
		}
		if strings.Contains(snippet, term) {
			s += snippetWeight
		}
		for _, tag := range e.Tags {
			if strings.EqualFold(tag, term) {
				s += tagWeight
				break
			}
		}
	}
	return s
}

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "the": true, "of": true, "for": true,
	"to": true, "in": true, "on": true, "with": true, "how": true,
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if len(f) < 2 || stopWords[f] || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
