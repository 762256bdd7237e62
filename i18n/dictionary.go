package i18n

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed dictionary.yaml
var defaultDictionaryYAML []byte

// ErrEmptyDictionary is returned when a dictionary source holds no term pairs.
var ErrEmptyDictionary = errors.New("dictionary has no terms")

// Pair maps a source-language term to its canonical target-language term.
type Pair struct {
	Source string
	Target string
}

// Category is a named group of pairs, e.g. "types" or "habitats".
type Category struct {
	Name  string
	Pairs []Pair
}

// Dictionary is a static bilingual lookup table: category -> {source: target}.
// A term matches a pair when it equals either side after normalization.
// Categories are consulted in name order, pairs in source order, first match wins.
type Dictionary struct {
	categories []Category
	canonical  map[string]string // normalized term (either side) -> target
	terms      []string          // every normalized term, sorted, without duplicates
}

// NewDictionary builds a dictionary from grouped term pairs.
func NewDictionary(groups map[string]map[string]string) (*Dictionary, error) {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	slices.Sort(names)

	d := &Dictionary{canonical: make(map[string]string)}
	for _, name := range names {
		group := groups[name]
		sources := make([]string, 0, len(group))
		for src := range group {
			sources = append(sources, src)
		}
		slices.Sort(sources)

		category := Category{Name: name}
		for _, src := range sources {
			target := strings.ToLower(strings.TrimSpace(group[src]))
			if target == "" || strings.TrimSpace(src) == "" {
				continue
			}
			category.Pairs = append(category.Pairs, Pair{Source: src, Target: target})
			for _, key := range []string{Normalize(src), Normalize(target)} {
				if _, seen := d.canonical[key]; !seen {
					d.canonical[key] = target
				}
			}
		}
		d.categories = append(d.categories, category)
	}

	if len(d.canonical) == 0 {
		return nil, ErrEmptyDictionary
	}

	d.terms = make([]string, 0, len(d.canonical))
	for term := range d.canonical {
		d.terms = append(d.terms, term)
	}
	slices.Sort(d.terms)
	return d, nil
}

// ParseDictionary decodes a YAML document of the form
//
//	types:
//	  fogo: fire
//	habitats:
//	  caverna: cave
func ParseDictionary(data []byte) (*Dictionary, error) {
	var groups map[string]map[string]string
	if err := yaml.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}
	return NewDictionary(groups)
}

// LoadDictionaryFile reads a YAML dictionary from disk.
func LoadDictionaryFile(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDictionary(data)
}

// DefaultDictionary returns the built-in Portuguese/English dictionary
// covering Pokémon types and habitats.
func DefaultDictionary() *Dictionary {
	d, err := ParseDictionary(defaultDictionaryYAML)
	if err != nil {
		panic(fmt.Sprintf("i18n: embedded dictionary is invalid: %v", err))
	}
	return d
}

// Lookup returns the canonical term for an exact (normalized) match on
// either side of any pair.
func (d *Dictionary) Lookup(term string) (string, bool) {
	target, ok := d.canonical[Normalize(term)]
	return target, ok
}

// Terms returns every known normalized term in both languages.
func (d *Dictionary) Terms() []string {
	return slices.Clone(d.terms)
}

// Categories returns the dictionary groups in lookup order.
func (d *Dictionary) Categories() []Category {
	return slices.Clone(d.categories)
}
