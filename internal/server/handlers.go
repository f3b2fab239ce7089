package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cascadelayout/cascade/pkg/board"
	"github.com/cascadelayout/cascade/pkg/cache"
	"github.com/cascadelayout/cascade/pkg/errors"
	"github.com/cascadelayout/cascade/pkg/feed"
	"github.com/cascadelayout/cascade/pkg/masonry"
	"github.com/cascadelayout/cascade/pkg/observability"
	"github.com/cascadelayout/cascade/pkg/pipeline"
	"github.com/cascadelayout/cascade/pkg/window"
)

// maxBodyBytes caps request bodies. Large boards are fine; multi-megabyte
// garbage is not.
const maxBodyBytes = 8 << 20

// layoutRequest is the POST /v1/layout body: pipeline options plus an
// optional inline board that bypasses the resolve stage.
type layoutRequest struct {
	pipeline.Options
	Board *board.Board `json:"board,omitempty"`
}

// layoutResponse carries the computed snapshot and cache provenance.
type layoutResponse struct {
	BoardHash  string         `json:"board_hash,omitempty"`
	Snapshot   board.Snapshot `json:"snapshot"`
	ResolveHit bool           `json:"resolve_cache_hit"`
	LayoutHit  bool           `json:"layout_cache_hit"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	resp := layoutResponse{}
	b := req.Board
	if b != nil {
		if err := b.Validate(); err != nil {
			writeError(w, err)
			return
		}
	} else {
		resolved, hit, err := s.runner.ResolveWithCacheInfo(r.Context(), req.Options)
		if err != nil {
			writeError(w, err)
			return
		}
		b = resolved
		resp.ResolveHit = hit
	}

	if data, err := board.MarshalBoard(b); err == nil {
		resp.BoardHash = cache.Hash(data)
	}

	snapshot, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), b, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}
	resp.Snapshot = snapshot
	resp.LayoutHit = hit

	writeJSON(w, http.StatusOK, resp)
}

// windowRequest is the POST /v1/window body: a snapshot plus the scroll
// query to evaluate against it.
type windowRequest struct {
	Snapshot board.Snapshot `json:"snapshot"`
	Query    window.Query   `json:"query"`
}

// windowResponse carries the visible subset and the evaluated bounds.
type windowResponse struct {
	Total   int             `json:"total"`
	Count   int             `json:"count"`
	Lower   float64         `json:"lower"`
	Upper   float64         `json:"upper"`
	Visible []masonry.Space `json:"visible"`
}

func (s *Server) handleWindow(w http.ResponseWriter, r *http.Request) {
	var req windowRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.Snapshot.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := errors.ValidateScrollQuery(req.Query.ScrollOffset, req.Query.ViewportExtent); err != nil {
		writeError(w, err)
		return
	}
	if err := errors.ValidatePreload(req.Query.TopPreload, req.Query.BottomPreload); err != nil {
		writeError(w, err)
		return
	}

	visible := window.Visible(req.Snapshot.Spaces, req.Query)
	observability.Window().OnWindowQuery(r.Context(), len(req.Snapshot.Spaces), len(visible))

	lower, upper := req.Query.Bounds()
	writeJSON(w, http.StatusOK, windowResponse{
		Total:   len(req.Snapshot.Spaces),
		Count:   len(visible),
		Lower:   lower,
		Upper:   upper,
		Visible: visible,
	})
}

// handleFeed serves generated boards. Only the static source is reachable
// over the API: file and mongo sources would expose server-local resources.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	source := q.Get("source")
	if source == "" {
		source = feed.SourceStatic
	}
	if source != feed.SourceStatic {
		writeError(w, errors.New(errors.ErrCodeUnsupported,
			"source %q is not served over the API", source))
		return
	}

	seed := queryInt64(q.Get("seed"), pipeline.DefaultSeed)
	count := queryInt(q.Get("count"), pipeline.DefaultCount)
	page := queryInt(q.Get("page"), 1)
	perPage := queryInt(q.Get("per_page"), feed.DefaultPerPage)

	src := feed.NewStatic(seed, count)
	defer src.Close()

	items, err := src.Fetch(r.Context(), page, perPage)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []board.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Helpers
// =============================================================================

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, statusFor(code), errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(code),
	})
}

// statusFor maps error codes to HTTP statuses.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidOptions, errors.ErrCodeInvalidBoard,
		errors.ErrCodeInvalidLayout, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidQuery,
		errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func queryInt(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func queryInt64(s string, def int64) int64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return def
	}
	return v
}
