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

type CompaniesHandler struct {
	DB *sql.DB
}

func (h CompaniesHandler) List(w http.ResponseWriter, r *http.Request) {
	companies, err := store.ListCompanies(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, 500, "db_error", err.Error())
		return
	}
	if companies == nil {
		companies = []domain.Company{}
	}
	writeJSON(w, companies)
}

func (h CompaniesHandler) Create(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var co domain.Company
	if err := dec.Decode(&co); err != nil {
		WriteError(w, r, 400, "bad_json", "invalid JSON: "+err.Error())
		return
	}

	id, err := store.InsertCompany(r.Context(), h.DB, co)
	if err != nil {
		WriteError(w, r, 400, "insert_failed", err.Error())
		return
	}

	created, err := store.GetCompany(r.Context(), h.DB, id)
	if err != nil {
		WriteError(w, r, 500, "db_error", err.Error())
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// GetByPath expects /companies/{id}.
func (h CompaniesHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	id, ok := companyIDFromPath(w, r)
	if !ok {
		return
	}
	co, err := store.GetCompany(r.Context(), h.DB, id)
	if err == sql.ErrNoRows {
		WriteError(w, r, 404, "not_found", "company not found")
		return
	}
	if err != nil {
		WriteError(w, r, 500, "db_error", err.Error())
		return
	}
	writeJSON(w, co)
}

func (h CompaniesHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	id, ok := companyIDFromPath(w, r)
	if !ok {
		return
	}
	if err := store.DeleteCompany(r.Context(), h.DB, id); err != nil {
		WriteError(w, r, 500, "db_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true, "id": id})
}

func companyIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := strings.TrimPrefix(r.URL.Path, "/companies/")
	idStr = strings.TrimSuffix(idStr, "/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, r, 400, "bad_id", "invalid company id")
		return 0, false
	}
	return id, true
}
