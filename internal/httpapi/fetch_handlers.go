package httpapi

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"jobradar-engine/internal/fetch"
	"jobradar-engine/internal/progress"
)

type FetchHandler struct {
	Runner   *fetch.Runner
	Sessions progress.Store

	running atomic.Bool
}

// Run starts a bulk fetch in the background and answers immediately with
// the session id to poll. Only one bulk run at a time.
func (h *FetchHandler) Run(w http.ResponseWriter, r *http.Request) {
	if !h.running.CompareAndSwap(false, true) {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	forceAll := r.URL.Query().Get("force") == "true"
	sessionID := uuid.NewString()

	go func() {
		defer h.running.Store(false)
		// detach from the request context; the run outlives the response
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
		defer cancel()
		if _, err := h.Runner.RunAll(ctx, forceAll, sessionID); err != nil {
			log.Printf("[fetch] bulk run %s: %v", sessionID, err)
		}
	}()

	writeJSON(w, map[string]any{"ok": true, "session_id": sessionID})
}

// RunCompanyByPath expects POST /fetch/companies/{id}: a synchronous
// single-company fetch returning the cycle's counts.
func (h *FetchHandler) RunCompanyByPath(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/fetch/companies/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, r, 400, "bad_id", "invalid company id")
		return
	}

	res, err := h.Runner.RunCompany(r.Context(), id)
	if err != nil {
		WriteError(w, r, 404, "not_found", err.Error())
		return
	}

	out := map[string]any{
		"ok":         res.Err == nil,
		"company_id": res.CompanyID,
		"company":    res.Company,
		"fetched":    res.Fetched,
		"added":      res.Added,
		"updated":    res.Updated,
		"closed":     res.Closed,
	}
	if res.Err != nil {
		out["error"] = res.Err.Error()
	}
	writeJSON(w, out)
}

// ProgressByPath expects GET /fetch/progress/{session_id}.
func (h *FetchHandler) ProgressByPath(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/fetch/progress/")
	id = strings.TrimSuffix(id, "/")
	if id == "" {
		WriteError(w, r, 400, "bad_id", "missing session id")
		return
	}

	s, ok, err := h.Sessions.Get(r.Context(), id)
	if err != nil {
		WriteError(w, r, 500, "store_error", err.Error())
		return
	}
	if !ok {
		WriteError(w, r, 404, "not_found", "unknown session")
		return
	}
	writeJSON(w, s)
}
