package search

import (
	"fmt"

	"github.com/poiesic/pokesearch/core"
	"github.com/poiesic/pokesearch/fuzzy"
)

// Translator maps a query term bound for a field to its canonical form.
type Translator interface {
	TranslateField(field core.Field, term string) string
}

// Combiner runs one fuzzy lookup per criterion and merges the match sets.
type Combiner struct {
	catalog    []core.CatalogEntry
	indices    map[core.Field]*fuzzy.Index
	translator Translator
}

// NewCombiner precomputes a single-field index for each of fields.
// The type field gets its own index like any other; multi-token matching
// is handled by the index itself.
func NewCombiner(catalog []core.CatalogEntry, translator Translator, fields []core.Field, threshold float64) (*Combiner, error) {
	if translator == nil {
		return nil, ErrTranslatorRequired
	}

	indices := make(map[core.Field]*fuzzy.Index, len(fields))
	for _, field := range fields {
		ix, err := fuzzy.NewIndex(catalog, fuzzy.Config{
			Fields:    []core.Field{field},
			Threshold: threshold,
		})
		if err != nil {
			return nil, fmt.Errorf("build %s index: %w", field, err)
		}
		indices[field] = ix
	}

	return &Combiner{
		catalog:    catalog,
		indices:    indices,
		translator: translator,
	}, nil
}

// Combine matches every active criterion and merges the results.
//
// AND keeps, in catalog order, the entries present in every criterion's
// match set; with no active criteria that is the whole catalog.
// OR concatenates the match sets in criteria order, keeping the first
// occurrence of each name; with no active criteria the result is empty.
//
// A criterion naming a field without an index yields core.ErrUnknownField.
func (c *Combiner) Combine(criteria []core.Criterion, mode core.Mode) ([]core.CatalogEntry, error) {
	return c.combine(criteria, mode, &noopMonitor{})
}

func (c *Combiner) combine(criteria []core.Criterion, mode core.Mode, monitor SearchMonitor) ([]core.CatalogEntry, error) {
	active := core.ActiveCriteria(criteria)

	matchSets := make([][]fuzzy.Match, 0, len(active))
	for _, criterion := range active {
		ix, ok := c.indices[criterion.Field]
		if !ok {
			return nil, fmt.Errorf("%w: %q", core.ErrUnknownField, criterion.Field)
		}

		translated := c.translator.TranslateField(criterion.Field, criterion.Term)
		monitor.AfterTranslation(criterion.Field, criterion.Term, translated)

		matches := ix.Match(translated)
		monitor.AfterFieldMatch(criterion.Field, translated, len(matches))
		matchSets = append(matchSets, matches)
	}

	if mode == core.ModeAND {
		return c.intersect(matchSets), nil
	}
	return union(matchSets), nil
}

// intersect filters the full catalog, so repeated fields and an empty
// criteria list behave as plain set intersection would.
func (c *Combiner) intersect(matchSets [][]fuzzy.Match) []core.CatalogEntry {
	sets := make([]map[int]struct{}, len(matchSets))
	for i, matches := range matchSets {
		set := make(map[int]struct{}, len(matches))
		for _, m := range matches {
			set[m.Position] = struct{}{}
		}
		sets[i] = set
	}

	results := make([]core.CatalogEntry, 0)
	for position, entry := range c.catalog {
		if inEvery(position, sets) {
			results = append(results, entry)
		}
	}
	return results
}

func inEvery(position int, sets []map[int]struct{}) bool {
	for _, set := range sets {
		if _, ok := set[position]; !ok {
			return false
		}
	}
	return true
}

func union(matchSets [][]fuzzy.Match) []core.CatalogEntry {
	seen := make(map[string]struct{})
	results := make([]core.CatalogEntry, 0)
	for _, matches := range matchSets {
		for _, m := range matches {
			if _, dup := seen[m.Entry.Name]; dup {
				continue
			}
			seen[m.Entry.Name] = struct{}{}
			results = append(results, m.Entry)
		}
	}
	return results
}
