package search

import (
	"github.com/poiesic/pokesearch/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(criteria []core.Criterion, mode core.Mode)
	AfterTranslation(field core.Field, term, translated string)
	AfterFieldMatch(field core.Field, term string, matched int)
	AfterCombine(results []core.CatalogEntry)
	Finish(page core.Page)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ []core.Criterion, _ core.Mode)        {}
func (n *noopMonitor) AfterTranslation(_ core.Field, _, _ string)   {}
func (n *noopMonitor) AfterFieldMatch(_ core.Field, _ string, _ int) {}
func (n *noopMonitor) AfterCombine(_ []core.CatalogEntry)           {}
func (n *noopMonitor) Finish(_ core.Page)                           {}
