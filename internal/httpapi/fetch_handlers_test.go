package httpapi

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"jobradar-engine/internal/progress"
)

func TestProgressByPathUnknownSession(t *testing.T) {
	h := &FetchHandler{Sessions: progress.NewMemoryStore()}

	req := httptest.NewRequest("GET", "/fetch/progress/nope", nil)
	rec := httptest.NewRecorder()
	h.ProgressByPath(rec, req)

	if rec.Code != 404 {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var e APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatal(err)
	}
	if e.Error.Code != "not_found" {
		t.Fatalf("error code = %q", e.Error.Code)
	}
}

func TestProgressByPathKnownSession(t *testing.T) {
	store := progress.NewMemoryStore()
	s := progress.NewSession("run-1", 4)
	if err := store.Put(context.Background(), s); err != nil {
		t.Fatal(err)
	}

	h := &FetchHandler{Sessions: store}
	req := httptest.NewRequest("GET", "/fetch/progress/run-1", nil)
	rec := httptest.NewRecorder()
	h.ProgressByPath(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var got progress.Session
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.SessionID != "run-1" || got.Total != 4 {
		t.Fatalf("session = %+v", got)
	}
}

func TestProgressByPathMissingID(t *testing.T) {
	h := &FetchHandler{Sessions: progress.NewMemoryStore()}
	req := httptest.NewRequest("GET", "/fetch/progress/", nil)
	rec := httptest.NewRecorder()
	h.ProgressByPath(rec, req)
	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
