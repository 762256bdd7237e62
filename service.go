// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pokesearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/poiesic/pokesearch/core"
	"github.com/poiesic/pokesearch/fetch"
	"github.com/poiesic/pokesearch/i18n"
	"github.com/poiesic/pokesearch/search"
	"github.com/poiesic/pokesearch/storage/badger"
)

// Query is a search with optional per-request thresholds.
type Query struct {
	Criteria []core.Criterion
	Mode     core.Mode
	Page     int
	PageSize int

	// Threshold overrides the configured fuzzy match threshold.
	Threshold *float64

	// TranslatorThreshold overrides the typo-correction threshold.
	// When nil, Threshold is used if set.
	TranslatorThreshold *float64
}

// Service wires the cache, the catalog fetcher and the search engine.
// The engine is built lazily on first search and swapped atomically on Refresh.
type Service struct {
	config     *Config
	backend    *badger.Backend
	cache      *badger.Cache
	fetcher    *fetch.Fetcher
	dict       *i18n.Dictionary
	translator *i18n.Translator
	monitor    search.SearchMonitor
	logger     *slog.Logger

	mu     sync.RWMutex
	engine *search.Engine
	closed bool

	loadMu sync.Mutex
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	logger   *slog.Logger
	progress io.Writer
}

// WithLogger sets a custom logger for the service and every component it builds.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProgress reports catalog fetch progress to w.
func WithProgress(w io.Writer) ServiceOption {
	return func(o *serviceOptions) {
		o.progress = w
	}
}

// NewService opens the cache and prepares the fetcher and translator.
// A nil cfg selects DefaultConfig(). No network access happens until the
// first Load or Search.
func NewService(cfg *Config, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger

	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dict, err := loadDictionary(cfg.Search.DictionaryFile)
	if err != nil {
		return nil, err
	}
	translator, err := i18n.NewTranslator(dict,
		i18n.WithThreshold(*cfg.Search.TranslatorThreshold),
		i18n.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	// Open backend
	backend, err := badger.OpenBackend(cfg.Cache.Dir, cfg.Cache.InMemory, badger.WithBackendLogger(logger))
	if err != nil {
		return nil, err
	}

	cache, err := badger.NewCache(backend, badger.WithTTL(cfg.Cache.TTL), badger.WithLogger(logger))
	if err != nil {
		backend.Close()
		return nil, err
	}

	fetchOpts := []fetch.Option{fetch.WithLogger(logger)}
	if options.progress != nil {
		fetchOpts = append(fetchOpts, fetch.WithProgress(options.progress))
	}
	fetcher, err := fetch.NewFetcher(cache, cfg.fetchConfig(), fetchOpts...)
	if err != nil {
		cache.Close()
		backend.Close()
		return nil, err
	}

	return &Service{
		config:     cfg,
		backend:    backend,
		cache:      cache,
		fetcher:    fetcher,
		dict:       dict,
		translator: translator,
		monitor:    &logMonitor{logger: logger},
		logger:     logger,
	}, nil
}

func loadDictionary(path string) (*i18n.Dictionary, error) {
	if path == "" {
		return i18n.DefaultDictionary(), nil
	}
	dict, err := i18n.LoadDictionaryFile(path)
	if err != nil {
		return nil, fmt.Errorf("load dictionary %s: %w", path, err)
	}
	return dict, nil
}

// Config returns the effective configuration.
func (s *Service) Config() *Config {
	return s.config
}

// Load fetches the catalog (from cache when possible) and installs a new engine.
func (s *Service) Load(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.load(ctx)
}

func (s *Service) load(ctx context.Context) error {
	if s.isClosed() {
		return ErrServiceClosed
	}

	catalog, err := s.fetcher.Catalog(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	engine, err := search.NewEngine(catalog, s.translator,
		search.WithLogger(s.logger),
		search.WithThreshold(*s.config.Search.Threshold),
		search.WithPageSize(s.config.Search.PageSize))
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.engine = engine
	s.mu.Unlock()

	s.logger.Info("catalog loaded", "entries", engine.Size())
	return nil
}

// Refresh purges the cache and reloads the catalog from upstream.
// The previous engine keeps serving until the new one is ready.
func (s *Service) Refresh(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.isClosed() {
		return ErrServiceClosed
	}
	removed, err := s.cache.Purge(ctx)
	if err != nil {
		return err
	}
	s.logger.Debug("dropped cached upstream data", "entries", removed)
	return s.load(ctx)
}

// Engine returns the current engine, loading the catalog on first use.
func (s *Service) Engine(ctx context.Context) (*search.Engine, error) {
	if engine := s.current(); engine != nil {
		return engine, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	// Another caller may have finished loading while we waited.
	if engine := s.current(); engine != nil {
		return engine, nil
	}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s.current(), nil
}

func (s *Service) current() *search.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

func (s *Service) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Search runs q against the current catalog.
func (s *Service) Search(ctx context.Context, q Query) (core.Page, error) {
	engine, err := s.Engine(ctx)
	if err != nil {
		return core.Page{}, err
	}

	req := search.Request{
		Criteria:  q.Criteria,
		Mode:      q.Mode,
		Page:      q.Page,
		PageSize:  q.PageSize,
		Threshold: q.Threshold,
	}

	translatorThreshold := q.TranslatorThreshold
	if translatorThreshold == nil {
		translatorThreshold = q.Threshold
	}
	if translatorThreshold != nil && *translatorThreshold != s.translator.Threshold() {
		translator, err := i18n.NewTranslator(s.dict,
			i18n.WithThreshold(*translatorThreshold),
			i18n.WithLogger(s.logger))
		if err != nil {
			return core.Page{}, err
		}
		req.Translator = translator
	}

	return engine.SearchWithMonitor(req, s.monitor)
}

// Close releases the fetcher, the cache and the backend.
// It waits for an in-flight Load or Refresh to return.
func (s *Service) Close() error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.engine = nil
	s.mu.Unlock()

	s.fetcher.Release()

	var errs []error
	if err := s.cache.Close(); err != nil {
		s.logger.Error("error closing cache", "err", err)
		errs = append(errs, err)
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
