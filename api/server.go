package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/poiesic/pokesearch"
	"github.com/poiesic/pokesearch/core"
)

// SearchFailedMessage is the body error of a search that could not run.
const SearchFailedMessage = "Erro ao realizar busca"

// Searcher answers a parsed search query.
type Searcher interface {
	Search(ctx context.Context, q pokesearch.Query) (core.Page, error)
}

type queryKey struct{}

// Handler serves the HTTP search API.
type Handler struct {
	searcher Searcher
	logger   *slog.Logger
	router   chi.Router
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger == nil {
			logger = slog.Default()
		}
		h.logger = logger
	}
}

// NewHandler builds the router:
//
//	GET /health      liveness probe
//	GET /api/buscar  search
func NewHandler(searcher Searcher, opts ...Option) (*Handler, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	h := &Handler{
		searcher: searcher,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/api", func(r chi.Router) {
		r.With(h.validateParams).Get("/buscar", h.handleSearch)
	})

	h.router = r
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// validateParams parses the query string and rejects malformed requests
// before the search handler runs.
func (h *Handler) validateParams(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q, err := ParseQuery(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), queryKey{}, q)))
	})
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	q, _ := r.Context().Value(queryKey{}).(pokesearch.Query)

	page, err := h.searcher.Search(r.Context(), q)
	if err != nil {
		h.logger.Error("search failed", "requestID", middleware.GetReqID(r.Context()), "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": SearchFailedMessage})
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"requestID", middleware.GetReqID(r.Context()))
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
