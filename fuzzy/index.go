package fuzzy

import (
	"errors"
	"slices"
	"strings"

	"github.com/poiesic/pokesearch/core"
)

// DefaultThreshold is the similarity threshold used when none is configured.
const DefaultThreshold = 0.2

// thresholdEpsilon absorbs float rounding so that e.g. 1 error in 5 runes
// passes a threshold of exactly 0.2.
const thresholdEpsilon = 1e-9

// ErrNoFields is returned when an index is configured without any field.
var ErrNoFields = errors.New("fuzzy index requires at least one field")

// Config selects which fields an Index matches against and how permissive it is.
type Config struct {
	// Fields are the entry attributes searched. A match on any token of any
	// listed field counts as a match for the entry.
	Fields []core.Field

	// Threshold is the maximum accepted Score, in [0,1].
	// 0 accepts only exact substrings, 1 accepts everything.
	Threshold float64
}

// DefaultConfig returns a config over all searchable fields at DefaultThreshold.
func DefaultConfig() Config {
	return Config{
		Fields:    slices.Clone(core.DefaultFields),
		Threshold: DefaultThreshold,
	}
}

// Match is a single ranked hit.
type Match struct {
	Entry    core.CatalogEntry
	Position int     // index of the entry in the catalog snapshot
	Score    float64 // best substring score over the entry's tokens
	Distance int     // whole-token edit distance of the best token, used for tie-breaks
}

// Index is an approximate matcher over a fixed catalog snapshot.
// It is read-only after construction and safe for concurrent use.
type Index struct {
	entries   []core.CatalogEntry
	tokens    [][]string // lower-cased tokens per entry, across all configured fields
	fields    []core.Field
	threshold float64
}

// NewIndex builds an index over entries. The entries slice is not copied;
// callers must not mutate it while the index is in use.
func NewIndex(entries []core.CatalogEntry, cfg Config) (*Index, error) {
	if len(cfg.Fields) == 0 {
		return nil, ErrNoFields
	}
	if err := core.ValidateThreshold(cfg.Threshold); err != nil {
		return nil, err
	}

	tokens := make([][]string, len(entries))
	for i, entry := range entries {
		var values []string
		for _, field := range cfg.Fields {
			for _, v := range entry.Values(field) {
				if v = strings.TrimSpace(v); v != "" {
					values = append(values, strings.ToLower(v))
				}
			}
		}
		tokens[i] = values
	}

	return &Index{
		entries:   entries,
		tokens:    tokens,
		fields:    slices.Clone(cfg.Fields),
		threshold: cfg.Threshold,
	}, nil
}

// Fields returns the fields this index matches against.
func (ix *Index) Fields() []core.Field {
	return slices.Clone(ix.fields)
}

// Threshold returns the configured threshold.
func (ix *Index) Threshold() float64 {
	return ix.threshold
}

// Len returns the number of entries in the snapshot.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Match returns every entry within the threshold of term, best first.
// Ordering is by Score, then by whole-token distance, then by catalog position.
// A blank term matches nothing.
func (ix *Index) Match(term string) []Match {
	pattern := strings.ToLower(strings.TrimSpace(term))
	if pattern == "" {
		return nil
	}

	var matches []Match
	for i, values := range ix.tokens {
		best, ok := bestToken(pattern, values)
		if !ok || best.Score > ix.threshold+thresholdEpsilon {
			continue
		}
		best.Entry = ix.entries[i]
		best.Position = i
		matches = append(matches, best)
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		switch {
		case a.Score < b.Score:
			return -1
		case a.Score > b.Score:
			return 1
		case a.Distance != b.Distance:
			return a.Distance - b.Distance
		}
		return a.Position - b.Position
	})
	return matches
}

// Search returns the matching entries of Match, best first.
func (ix *Index) Search(term string) []core.CatalogEntry {
	matches := ix.Match(term)
	results := make([]core.CatalogEntry, len(matches))
	for i, m := range matches {
		results[i] = m.Entry
	}
	return results
}

// Positions returns the catalog positions matched by term, for set membership tests.
func (ix *Index) Positions(term string) map[int]struct{} {
	matches := ix.Match(term)
	set := make(map[int]struct{}, len(matches))
	for _, m := range matches {
		set[m.Position] = struct{}{}
	}
	return set
}

func bestToken(pattern string, values []string) (Match, bool) {
	var best Match
	found := false
	for _, v := range values {
		candidate := Match{
			Score:    Score(pattern, v),
			Distance: WholeDistance(pattern, v),
		}
		if !found || candidate.Score < best.Score ||
			(candidate.Score == best.Score && candidate.Distance < best.Distance) {
			best = candidate
			found = true
		}
	}
	return best, found
}
