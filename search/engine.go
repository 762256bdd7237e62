package search

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/pokesearch/core"
	"github.com/poiesic/pokesearch/fuzzy"
)

// Engine answers multi-field queries over an immutable catalog snapshot.
// It is safe for concurrent use once built.
type Engine struct {
	catalog    []core.CatalogEntry
	combiner   *Combiner
	translator Translator
	fields     []core.Field
	threshold  float64
	pageSize   int
	logger     *slog.Logger
}

// Request is a single query with optional per-request overrides.
type Request struct {
	Criteria []core.Criterion
	Mode     core.Mode
	Page     int
	PageSize int

	// Threshold overrides the engine's similarity threshold when set.
	Threshold *float64

	// Translator overrides the engine's translator when set.
	Translator Translator
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithThreshold sets the similarity threshold used by the field indices.
// Default is fuzzy.DefaultThreshold.
func WithThreshold(threshold float64) Option {
	return func(e *Engine) error {
		if err := core.ValidateThreshold(threshold); err != nil {
			return err
		}
		e.threshold = threshold
		return nil
	}
}

// WithPageSize sets the page size used when a query does not ask for one.
// Default is DefaultPageSize.
func WithPageSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidPageSize, size)
		}
		e.pageSize = size
		return nil
	}
}

// WithFields restricts the searchable fields.
// Default is core.DefaultFields.
func WithFields(fields ...core.Field) Option {
	return func(e *Engine) error {
		if len(fields) == 0 {
			return fuzzy.ErrNoFields
		}
		e.fields = slices.Clone(fields)
		return nil
	}
}

// NewEngine builds an engine over a private copy of catalog.
func NewEngine(catalog []core.CatalogEntry, translator Translator, opts ...Option) (*Engine, error) {
	if translator == nil {
		return nil, ErrTranslatorRequired
	}

	e := &Engine{
		catalog:    cloneCatalog(catalog),
		translator: translator,
		fields:     slices.Clone(core.DefaultFields),
		threshold:  fuzzy.DefaultThreshold,
		pageSize:   DefaultPageSize,
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	combiner, err := NewCombiner(e.catalog, translator, e.fields, e.threshold)
	if err != nil {
		return nil, err
	}
	e.combiner = combiner

	e.logger.Debug("search engine ready", "entries", len(e.catalog), "fields", e.fields, "threshold", e.threshold)
	return e, nil
}

func cloneCatalog(catalog []core.CatalogEntry) []core.CatalogEntry {
	out := make([]core.CatalogEntry, len(catalog))
	for i, entry := range catalog {
		entry.Types = slices.Clone(entry.Types)
		out[i] = entry
	}
	return out
}

// Size returns the number of entries in the snapshot.
func (e *Engine) Size() int {
	return len(e.catalog)
}

// Threshold returns the default similarity threshold.
func (e *Engine) Threshold() float64 {
	return e.threshold
}

// PageSize returns the default page size.
func (e *Engine) PageSize() int {
	return e.pageSize
}

// Search runs criteria in mode and returns the requested page.
// Criteria with a blank term are ignored. pageSize < 1 selects the engine default.
func (e *Engine) Search(criteria []core.Criterion, mode core.Mode, page, pageSize int) (core.Page, error) {
	return e.SearchWithMonitor(Request{
		Criteria: criteria,
		Mode:     mode,
		Page:     page,
		PageSize: pageSize,
	}, nil)
}

// SearchWithMonitor runs req, reporting each stage to monitor.
func (e *Engine) SearchWithMonitor(req Request, monitor SearchMonitor) (core.Page, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	active := core.ActiveCriteria(req.Criteria)
	monitor.Start(active, req.Mode)

	combiner, err := e.combinerFor(req)
	if err != nil {
		return core.Page{}, err
	}

	results, err := combiner.combine(active, req.Mode, monitor)
	if err != nil {
		e.logger.Error("error combining criteria", "mode", req.Mode, "err", err)
		return core.Page{}, err
	}
	monitor.AfterCombine(results)

	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = e.pageSize
	}
	page := Paginate(results, req.Page, pageSize)
	monitor.Finish(page)

	e.logger.Debug("search complete",
		"criteria", len(active),
		"mode", req.Mode,
		"matches", page.Meta.TotalCount,
		"page", page.Meta.CurrentPage)
	return page, nil
}

// combinerFor returns the prebuilt combiner unless req overrides the
// threshold or translator, in which case a transient one is built.
func (e *Engine) combinerFor(req Request) (*Combiner, error) {
	threshold := e.threshold
	if req.Threshold != nil {
		if err := core.ValidateThreshold(*req.Threshold); err != nil {
			return nil, err
		}
		threshold = *req.Threshold
	}
	translator := e.translator
	if req.Translator != nil {
		translator = req.Translator
	}

	if threshold == e.threshold && req.Translator == nil {
		return e.combiner, nil
	}
	return NewCombiner(e.catalog, translator, e.fields, threshold)
}
