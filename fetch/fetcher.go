package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/pokesearch/core"
	"github.com/poiesic/pokesearch/storage"
	"golang.org/x/time/rate"
)

// Cache keys for the upstream lists and the enriched catalog.
const (
	PokemonListKey = "pokemonListCache"
	HabitatListKey = "pokemonHabitatListCache"
	TypeListKey    = "pokemonTypeListCache"
	CatalogKey     = "pokemonListWithHabitatAndTypeCache"
)

const (
	progressInterval = 250 * time.Millisecond
	maxRetryDelay    = 30 * time.Second
)

// Keys lists every cache key the fetcher writes.
var Keys = []string{PokemonListKey, HabitatListKey, TypeListKey, CatalogKey}

// listResponse is the envelope of every PokeAPI list endpoint.
type listResponse struct {
	Results []core.Resource `json:"results"`
}

type habitatDetail struct {
	Name           string          `json:"name"`
	PokemonSpecies []core.Resource `json:"pokemon_species"`
}

type typeDetail struct {
	Name    string `json:"name"`
	Pokemon []struct {
		Pokemon core.Resource `json:"pokemon"`
	} `json:"pokemon"`
}

// Fetcher assembles the catalog from PokeAPI, caching every list it reads.
type Fetcher struct {
	cache    storage.Cache
	config   *Config
	client   *http.Client
	limiter  *rate.Limiter
	pool     *ants.Pool
	progress io.Writer
	logger   *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger
		return nil
	}
}

// WithHTTPClient replaces the HTTP client. The config's Timeout is not applied to it.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) error {
		if client != nil {
			f.client = client
		}
		return nil
	}
}

// WithProgress reports detail request progress to w.
func WithProgress(w io.Writer) Option {
	return func(f *Fetcher) error {
		f.progress = w
		return nil
	}
}

// NewFetcher creates a fetcher. A nil cfg selects DefaultConfig().
// Call Release when done to stop the worker pool.
func NewFetcher(cache storage.Cache, cfg *Config, opts ...Option) (*Fetcher, error) {
	if cache == nil {
		return nil, ErrCacheRequired
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f := &Fetcher{
		cache:   cache,
		config:  cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:  slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return nil, err
	}
	f.pool = pool

	return f, nil
}

// Release stops the worker pool.
func (f *Fetcher) Release() {
	if f.pool != nil {
		f.pool.Release()
	}
}

// Catalog returns the enriched catalog, from cache when available.
//
// Entries without a name are skipped. Missing habitats and types are
// reported as "unknown" so they remain searchable.
//
// A failure to read the pokemon list is returned. A failure to read habitat
// or type details only degrades those attributes to "unknown"; the degraded
// catalog is returned but not cached, so the next call tries again.
func (f *Fetcher) Catalog(ctx context.Context) ([]core.CatalogEntry, error) {
	if data, err := f.cache.Get(ctx, CatalogKey); err == nil {
		catalog, err := storage.UnmarshalCatalog(data)
		if err == nil {
			f.logger.Debug("catalog served from cache", "entries", len(catalog))
			return catalog, nil
		}
		f.logger.Warn("discarding unreadable cached catalog", "err", err)
	} else if !errors.Is(err, storage.ErrNotFound) {
		f.logger.Warn("error reading catalog cache", "err", err)
	}

	var (
		wg         sync.WaitGroup
		pokemon    []core.Resource
		pokemonErr error
		habitats   map[string]string
		habitatErr error
		types      map[string][]string
		typeErr    error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		pokemon, pokemonErr = f.PokemonList(ctx)
	}()
	go func() {
		defer wg.Done()
		habitats, habitatErr = f.HabitatMap(ctx)
	}()
	go func() {
		defer wg.Done()
		types, typeErr = f.TypeMap(ctx)
	}()
	wg.Wait()

	if pokemonErr != nil {
		f.logger.Error("error fetching pokemon list", "err", pokemonErr)
		return nil, pokemonErr
	}

	degraded := false
	if habitatErr != nil {
		f.logger.Warn("habitats unavailable, using unknown", "err", habitatErr)
		habitats = map[string]string{}
		degraded = true
	}
	if typeErr != nil {
		f.logger.Warn("types unavailable, using unknown", "err", typeErr)
		types = map[string][]string{}
		degraded = true
	}

	catalog := make([]core.CatalogEntry, 0, len(pokemon))
	for _, p := range pokemon {
		entry := core.CatalogEntry{
			Name:    p.Name,
			URL:     p.URL,
			Habitat: habitats[p.Name],
			Types:   types[p.Name],
		}
		if err := core.ValidateEntry(&entry); err != nil {
			f.logger.Warn("skipping pokemon", "url", p.URL, "err", err)
			continue
		}
		if entry.Habitat == "" {
			entry.Habitat = core.UnknownValue
		}
		if len(entry.Types) == 0 {
			entry.Types = []string{core.UnknownValue}
		}
		catalog = append(catalog, entry)
	}

	if degraded {
		f.logger.Warn("not caching degraded catalog", "entries", len(catalog))
		return catalog, nil
	}
	if err := f.cache.Set(ctx, CatalogKey, storage.MarshalCatalog(catalog)); err != nil {
		f.logger.Warn("error caching catalog", "err", err)
	}
	f.logger.Info("catalog assembled", "entries", len(catalog), "habitats", len(habitats), "typed", len(types))
	return catalog, nil
}

// PokemonList returns every pokemon name and URL.
func (f *Fetcher) PokemonList(ctx context.Context) ([]core.Resource, error) {
	return f.resources(ctx, "pokemon", PokemonListKey)
}

// HabitatMap maps each pokemon name to its habitat.
func (f *Fetcher) HabitatMap(ctx context.Context) (map[string]string, error) {
	list, err := f.resources(ctx, "pokemon-habitat/", HabitatListKey)
	if err != nil {
		return nil, err
	}

	details, err := fetchDetails[habitatDetail](ctx, f, list, "habitats")
	if err != nil {
		return nil, err
	}

	habitats := make(map[string]string)
	for _, detail := range details {
		for _, species := range detail.PokemonSpecies {
			habitats[species.Name] = detail.Name
		}
	}
	return habitats, nil
}

// TypeMap maps each pokemon name to its types, in type list order.
func (f *Fetcher) TypeMap(ctx context.Context) (map[string][]string, error) {
	list, err := f.resources(ctx, "type/", TypeListKey)
	if err != nil {
		return nil, err
	}

	details, err := fetchDetails[typeDetail](ctx, f, list, "types")
	if err != nil {
		return nil, err
	}

	types := make(map[string][]string)
	for _, detail := range details {
		for _, entry := range detail.Pokemon {
			types[entry.Pokemon.Name] = append(types[entry.Pokemon.Name], detail.Name)
		}
	}
	return types, nil
}

// resources reads a list endpoint through the cache.
func (f *Fetcher) resources(ctx context.Context, path, key string) ([]core.Resource, error) {
	if data, err := f.cache.Get(ctx, key); err == nil {
		list, err := storage.UnmarshalResources(data)
		if err == nil {
			return list, nil
		}
		f.logger.Warn("discarding unreadable cache entry", "key", key, "err", err)
	}

	url := f.config.BaseURL + "/" + path + "?limit=" + strconv.Itoa(f.config.ListLimit)
	var resp listResponse
	if err := f.getJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}

	if err := f.cache.Set(ctx, key, storage.MarshalResources(resp.Results)); err != nil {
		f.logger.Warn("error caching list", "key", key, "err", err)
	}
	f.logger.Debug("fetched list", "key", key, "count", len(resp.Results))
	return resp.Results, nil
}

// fetchDetails fetches every resource URL on the worker pool. Results keep
// the order of list. Any failure fails the whole batch.
func fetchDetails[T any](ctx context.Context, f *Fetcher, list []core.Resource, label string) ([]T, error) {
	var progress *ProgressTracker
	if f.progress != nil {
		progress = NewProgressTracker(f.progress, label, len(list), progressInterval)
		defer progress.Finish()
	}

	results := make([]T, len(list))
	errs := make([]error, len(list))
	var wg sync.WaitGroup
	for i, resource := range list {
		wg.Add(1)
		err := f.pool.Submit(func() {
			defer wg.Done()
			if err := f.getJSON(ctx, resource.URL, &results[i]); err != nil {
				errs[i] = fmt.Errorf("%s: %w", resource.Name, err)
			}
			progress.Record(errs[i])
		})
		if err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}

// getJSON performs a throttled GET with retries and decodes the body into out.
func (f *Fetcher) getJSON(ctx context.Context, url string, out any) error {
	backoff := Backoff{
		Attempts:  f.config.MaxRetries + 1,
		Delay:     f.config.RetryDelay,
		MaxDelay:  maxRetryDelay,
		Retryable: IsRetryable,
		Logger:    f.logger,
	}
	return backoff.Do(ctx, func() error {
		if err := f.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", f.config.UserAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			return &StatusError{
				StatusCode: resp.StatusCode,
				URL:        url,
				RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			}
		}
		return json.NewDecoder(resp.Body).Decode(out)
	})
}
