package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/boardkit/boardkit/pkg/board"
	"github.com/boardkit/boardkit/pkg/cache"
	"github.com/boardkit/boardkit/pkg/engine"
	"github.com/boardkit/boardkit/pkg/errors"
	"github.com/boardkit/boardkit/pkg/observability"
	"github.com/boardkit/boardkit/pkg/store"
)

func testServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	logger := log.New(io.Discard)
	runner := engine.NewRunner(nil, nil, logger)
	return New(runner, st, logger), st
}

func testBoard() board.Board {
	return board.Board{Layers: []board.Layer{
		{
			ID: "frame", Kind: board.KindFrame,
			X: 0, Y: 0, Width: 200, Height: 200,
			Frame: &board.FrameData{Title: "Plan", Children: []board.LayerID{"note"}},
		},
		{
			ID: "note", Kind: board.KindNote,
			X: 20, Y: 20, Width: 100, Height: 60, Value: "inside",
		},
		{
			ID: "a", Kind: board.KindRectangle,
			X: 400, Y: 0, Width: 100, Height: 100,
		},
	}}
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := testServer(t)
	rec := doJSON(t, s.Router(), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestBoardCRUD(t *testing.T) {
	s, _ := testServer(t)
	r := s.Router()

	// Put
	rec := doJSON(t, r, http.MethodPut, "/v1/boards/retro", testBoard())
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Get
	rec = doJSON(t, r, http.MethodGet, "/v1/boards/retro", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var got board.Board
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode board: %v", err)
	}
	if len(got.Layers) != 3 {
		t.Errorf("layers = %d, want 3", len(got.Layers))
	}

	// List
	rec = doJSON(t, r, http.MethodGet, "/v1/boards/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "retro") {
		t.Errorf("list body = %q", rec.Body.String())
	}

	// Delete
	rec = doJSON(t, r, http.MethodDelete, "/v1/boards/retro", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodGet, "/v1/boards/retro", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestGetMissingBoard(t *testing.T) {
	s, _ := testServer(t)
	rec := doJSON(t, s.Router(), http.MethodGet, "/v1/boards/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.Code != "BOARD_NOT_FOUND" {
		t.Errorf("code = %q, want BOARD_NOT_FOUND", resp.Code)
	}
}

func TestPutInvalidBoardID(t *testing.T) {
	s, _ := testServer(t)
	rec := doJSON(t, s.Router(), http.MethodPut, "/v1/boards/bad..id", testBoard())
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPutInvalidBoard(t *testing.T) {
	s, _ := testServer(t)
	bad := board.Board{Layers: []board.Layer{{ID: "x", Kind: "wat"}}}
	rec := doJSON(t, s.Router(), http.MethodPut, "/v1/boards/retro", bad)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
}

func TestStatelessGeometry(t *testing.T) {
	s, _ := testServer(t)
	req := geometryRequest{
		Board:   testBoard(),
		Options: engine.Options{Op: engine.OpSort},
	}
	rec := doJSON(t, s.Router(), http.MethodPost, "/v1/geometry", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result engine.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Order) != 3 || result.Order[0] != "frame" {
		t.Errorf("order = %v, want frame first", result.Order)
	}
}

func TestStatelessGeometryBadOp(t *testing.T) {
	s, _ := testServer(t)
	req := geometryRequest{
		Board:   testBoard(),
		Options: engine.Options{Op: "nope"},
	}
	rec := doJSON(t, s.Router(), http.MethodPost, "/v1/geometry", req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestBoardGeometry(t *testing.T) {
	s, st := testServer(t)
	b := testBoard()
	if err := st.Put(context.Background(), "retro", &b); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	opts := engine.Options{Op: engine.OpMasonry}
	rec := doJSON(t, s.Router(), http.MethodPost, "/v1/boards/retro/geometry", opts)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result engine.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	// All non-frame layers pack by default.
	if len(result.Placements) != 2 {
		t.Errorf("placements = %d, want 2", len(result.Placements))
	}
}

func TestRenderSVG(t *testing.T) {
	s, st := testServer(t)
	b := testBoard()
	if err := st.Put(context.Background(), "retro", &b); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	rec := doJSON(t, s.Router(), http.MethodGet, "/v1/boards/retro/render?format=svg", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("body does not look like SVG")
	}
}

func TestRenderDOT(t *testing.T) {
	s, st := testServer(t)
	b := testBoard()
	if err := st.Put(context.Background(), "retro", &b); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	rec := doJSON(t, s.Router(), http.MethodGet, "/v1/boards/retro/render?format=dot", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "digraph board") || !strings.Contains(body, `"frame" -> "note"`) {
		t.Errorf("dot body = %q", body)
	}
}

func TestRenderBadFormat(t *testing.T) {
	s, st := testServer(t)
	b := testBoard()
	if err := st.Put(context.Background(), "retro", &b); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	rec := doJSON(t, s.Router(), http.MethodGet, "/v1/boards/retro/render?format=gif", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// cachedServer builds a server whose runner has a real file cache, for
// read-through and artifact caching tests.
func cachedServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	fileCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	st := store.NewMemoryStore()
	logger := log.New(io.Discard)
	runner := engine.NewRunner(fileCache, nil, logger)
	t.Cleanup(func() { runner.Close() })
	return New(runner, st, logger), st
}

// countingCacheHooks counts hits per key family.
type countingCacheHooks struct {
	observability.NoopCacheHooks
	hits map[string]int
}

func (h *countingCacheHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.hits[keyType]++
}

func TestBoardCacheReadThrough(t *testing.T) {
	hooks := &countingCacheHooks{hits: map[string]int{}}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	s, _ := cachedServer(t)
	r := s.Router()

	rec := doJSON(t, r, http.MethodPut, "/v1/boards/retro", testBoard())
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d", rec.Code)
	}

	doJSON(t, r, http.MethodGet, "/v1/boards/retro", nil)
	rec = doJSON(t, r, http.MethodGet, "/v1/boards/retro", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	if hooks.hits["board"] == 0 {
		t.Error("second get should be served from the board cache")
	}

	// A new revision must invalidate the cached document.
	updated := testBoard()
	updated.Layers = updated.Layers[:2]
	rec = doJSON(t, r, http.MethodPut, "/v1/boards/retro", updated)
	if rec.Code != http.StatusOK {
		t.Fatalf("second put status = %d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodGet, "/v1/boards/retro", nil)
	var got board.Board
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode board: %v", err)
	}
	if len(got.Layers) != 2 {
		t.Errorf("layers = %d, want the updated 2", len(got.Layers))
	}

	// Delete invalidates too: no stale cached copy survives.
	doJSON(t, r, http.MethodDelete, "/v1/boards/retro", nil)
	rec = doJSON(t, r, http.MethodGet, "/v1/boards/retro", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestRenderArtifactCache(t *testing.T) {
	hooks := &countingCacheHooks{hits: map[string]int{}}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	s, st := cachedServer(t)
	b := testBoard()
	if err := st.Put(context.Background(), "retro", &b); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	r := s.Router()

	first := doJSON(t, r, http.MethodGet, "/v1/boards/retro/render?format=svg", nil)
	if first.Code != http.StatusOK {
		t.Fatalf("first render status = %d", first.Code)
	}
	if hooks.hits["artifact"] != 0 {
		t.Error("first render should miss the artifact cache")
	}

	second := doJSON(t, r, http.MethodGet, "/v1/boards/retro/render?format=svg", nil)
	if second.Code != http.StatusOK {
		t.Fatalf("second render status = %d", second.Code)
	}
	if hooks.hits["artifact"] != 1 {
		t.Errorf("artifact hits = %d, want 1", hooks.hits["artifact"])
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("cached artifact differs from the rendered one")
	}
}

// recordingHTTPHooks captures server-error notifications.
type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	errs []string
}

func (h *recordingHTTPHooks) OnError(ctx context.Context, method, path string, err error) {
	h.errs = append(h.errs, method+" "+path)
}

// failingStore returns an internal error from every read.
type failingStore struct{ store.Store }

func (failingStore) Get(ctx context.Context, id string) (*board.Board, error) {
	return nil, errors.New(errors.ErrCodeInternal, "store unavailable")
}

func TestServerErrorHook(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	st := failingStore{store.NewMemoryStore()}
	logger := log.New(io.Discard)
	s := New(engine.NewRunner(nil, nil, logger), st, logger)

	rec := doJSON(t, s.Router(), http.MethodGet, "/v1/boards/retro", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if len(hooks.errs) != 1 || !strings.Contains(hooks.errs[0], "/v1/boards/retro") {
		t.Errorf("error hook calls = %v", hooks.errs)
	}
}
