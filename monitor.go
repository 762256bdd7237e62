package pokesearch

import (
	"log/slog"

	"github.com/poiesic/pokesearch/core"
	"github.com/poiesic/pokesearch/search"
)

// logMonitor traces each search stage at debug level.
type logMonitor struct {
	logger *slog.Logger
}

var _ search.SearchMonitor = (*logMonitor)(nil)

func (m *logMonitor) Start(criteria []core.Criterion, mode core.Mode) {
	m.logger.Debug("search started", "criteria", len(criteria), "mode", mode)
}

func (m *logMonitor) AfterTranslation(field core.Field, term, translated string) {
	if term != translated {
		m.logger.Debug("query term translated", "field", field, "term", term, "translated", translated)
	}
}

func (m *logMonitor) AfterFieldMatch(field core.Field, term string, matched int) {
	m.logger.Debug("field matched", "field", field, "term", term, "matched", matched)
}

func (m *logMonitor) AfterCombine(results []core.CatalogEntry) {
	m.logger.Debug("criteria combined", "results", len(results))
}

func (m *logMonitor) Finish(page core.Page) {
	m.logger.Debug("search finished",
		"page", page.Meta.CurrentPage,
		"totalPages", page.Meta.TotalPages,
		"totalCount", page.Meta.TotalCount)
}
