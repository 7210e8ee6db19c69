package httpapi

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/store"
)

type JobsHandler struct {
	DB *sql.DB
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var opts store.ListJobsOpts
	if v := q.Get("company_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			WriteError(w, r, 400, "bad_id", "invalid company_id")
			return
		}
		opts.CompanyID = id
	}
	opts.OpenOnly = q.Get("open") == "true"
	if v := q.Get("limit"); v != "" {
		opts.Limit, _ = strconv.Atoi(v)
	}

	jobs, err := store.ListJobs(r.Context(), h.DB, opts)
	if err != nil {
		WriteError(w, r, 500, "db_error", err.Error())
		return
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}
	writeJSON(w, jobs)
}

// SetStatusByPath expects /jobs/{id}/status with {"status": "..."}.
func (h JobsHandler) SetStatusByPath(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/jobs/")
	idStr := strings.TrimSuffix(rest, "/status")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 || !strings.HasSuffix(rest, "/status") {
		WriteError(w, r, 400, "bad_id", "invalid job id")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Status) == "" {
		WriteError(w, r, 400, "bad_json", "body must be {\"status\": \"...\"}")
		return
	}

	if err := store.SetJobStatus(r.Context(), h.DB, id, strings.TrimSpace(body.Status)); err != nil {
		if err == sql.ErrNoRows {
			WriteError(w, r, 404, "not_found", "job not found")
			return
		}
		WriteError(w, r, 500, "db_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true, "id": id})
}
