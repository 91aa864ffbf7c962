// Package server implements the Boardkit HTTP API.
//
// The API exposes the geometry engine over HTTP for clients that do not
// embed the Go packages directly. Two surfaces exist:
//
//   - stateless geometry: POST /v1/geometry with a board in the request body
//   - stored boards: CRUD under /v1/boards/{id}, plus geometry and render
//     endpoints that operate on the stored document
//
// All responses are JSON except renders, which return the artifact bytes
// with the matching content type. Errors map to HTTP status codes through
// the errors package, so a missing board is a 404 and a malformed request
// is a 400 regardless of which handler produced it.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/boardkit/boardkit/pkg/board"
	"github.com/boardkit/boardkit/pkg/cache"
	"github.com/boardkit/boardkit/pkg/engine"
	"github.com/boardkit/boardkit/pkg/errors"
	"github.com/boardkit/boardkit/pkg/observability"
	"github.com/boardkit/boardkit/pkg/render"
	"github.com/boardkit/boardkit/pkg/store"
)

// maxBodyBytes bounds request bodies. Boards are layer lists, not images,
// so 8 MiB is generous.
const maxBodyBytes = 8 << 20

// =============================================================================
// Server
// =============================================================================

// Server holds the dependencies shared by all handlers.
type Server struct {
	Runner *engine.Runner
	Store  store.Store
	Logger *log.Logger
}

// New creates a server. A nil logger falls back to log.Default; runner and
// store must be non-nil.
func New(runner *engine.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{Runner: runner, Store: st, Logger: logger}
}

// Router builds the chi route tree with the standard middleware stack.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/geometry", s.handleGeometry)

		r.Route("/boards", func(r chi.Router) {
			r.Get("/", s.handleListBoards)
			r.Route("/{boardID}", func(r chi.Router) {
				r.Get("/", s.handleGetBoard)
				r.Put("/", s.handlePutBoard)
				r.Delete("/", s.handleDeleteBoard)
				r.Post("/geometry", s.handleBoardGeometry)
				r.Get("/render", s.handleRenderBoard)
			})
		})
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.Logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

// =============================================================================
// Health
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Geometry
// =============================================================================

// geometryRequest is the body for stateless geometry calls: the board
// travels with the request.
type geometryRequest struct {
	Board   board.Board    `json:"board"`
	Options engine.Options `json:"options"`
}

func (s *Server) handleGeometry(w http.ResponseWriter, r *http.Request) {
	var req geometryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.Runner.Execute(r.Context(), req.Board, req.Options)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "geometry failed"))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleBoardGeometry runs an operation against a stored board. Only the
// options travel in the body.
func (s *Server) handleBoardGeometry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "boardID")
	if err := errors.ValidateBoardID(id); err != nil {
		s.writeError(w, r, err)
		return
	}

	var opts engine.Options
	if err := decodeJSON(r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}

	b, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.Runner.Execute(r.Context(), *b, opts)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "geometry failed"))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// Boards
// =============================================================================

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"boards": ids})
}

// handleGetBoard reads through the cache: stored boards are served from the
// board key family when present, and every read primes it. Put and Delete
// invalidate the entry, so a cached board is never staler than the store.
func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "boardID")
	if err := errors.ValidateBoardID(id); err != nil {
		s.writeError(w, r, err)
		return
	}

	boardKey := s.Runner.Keyer.BoardKey(id)
	if data, hit, err := s.Runner.Cache.Get(r.Context(), boardKey); err == nil && hit {
		observability.Cache().OnCacheHit(r.Context(), "board")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}
	observability.Cache().OnCacheMiss(r.Context(), "board")

	b, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if data, err := board.MarshalBoard(*b); err == nil {
		if s.Runner.Cache.Set(r.Context(), boardKey, data, cache.TTLBoard) == nil {
			observability.Cache().OnCacheSet(r.Context(), "board", len(data))
		}
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handlePutBoard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "boardID")
	if err := errors.ValidateBoardID(id); err != nil {
		s.writeError(w, r, err)
		return
	}

	var b board.Board
	if err := decodeJSON(r, &b); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := b.Validate(); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidBoard, err, "invalid board"))
		return
	}

	if err := s.Store.Put(r.Context(), id, &b); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.Runner.Cache.Delete(r.Context(), s.Runner.Keyer.BoardKey(id))
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "boardID")
	if err := errors.ValidateBoardID(id); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.Store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.Runner.Cache.Delete(r.Context(), s.Runner.Keyer.BoardKey(id))
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Render
// =============================================================================

func (s *Server) handleRenderBoard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "boardID")
	if err := errors.ValidateBoardID(id); err != nil {
		s.writeError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "svg"
	}
	if err := errors.ValidateOutputFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	b, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	boardData, err := board.MarshalBoard(*b)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render failed"))
		return
	}
	if format == "json" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(boardData)
		return
	}

	// Artifact keys hash the board content, so a changed board computes a
	// fresh key and stale entries simply age out.
	artifactKey := s.Runner.Keyer.ArtifactKey(cache.Hash(boardData), cache.ArtifactKeyOpts{Format: format})
	if data, hit, err := s.Runner.Cache.Get(r.Context(), artifactKey); err == nil && hit {
		observability.Cache().OnCacheHit(r.Context(), "artifact")
		w.Header().Set("Content-Type", contentTypeFor(format))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}
	observability.Cache().OnCacheMiss(r.Context(), "artifact")

	snap := b.Snapshot()
	observability.Engine().OnRenderStart(r.Context(), format)
	start := time.Now()

	var data []byte
	switch format {
	case "svg":
		data = render.RenderSVG(snap, render.WithFrameTitles())
	case "png":
		svg := render.RenderSVG(snap, render.WithFrameTitles())
		data, err = render.ToPNG(svg, 2.0)
	case "dot":
		data = []byte(render.HierarchyDOT(snap, render.DOTOptions{}))
	}
	observability.Engine().OnRenderComplete(r.Context(), format, time.Since(start), err)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render failed"))
		return
	}

	if s.Runner.Cache.Set(r.Context(), artifactKey, data, cache.TTLArtifact) == nil {
		observability.Cache().OnCacheSet(r.Context(), "artifact", len(data))
	}

	w.Header().Set("Content-Type", contentTypeFor(format))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// contentTypeFor maps a render format to its response content type.
func contentTypeFor(format string) string {
	switch format {
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	case "dot":
		return "text/vnd.graphviz"
	default:
		return "application/json"
	}
}

// =============================================================================
// Request/Response Helpers
// =============================================================================

// decodeJSON reads a bounded JSON body into v, rejecting unknown trailing
// content.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// errorResponse is the wire shape of every error the API returns.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
		s.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.Logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "err", err)
	}

	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}
