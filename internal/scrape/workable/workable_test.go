package workable

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractSlug(t *testing.T) {
	cases := []struct {
		url, want string
		wantErr   bool
	}{
		{"https://apply.workable.com/acme/", "acme", false},
		{"https://acme-labs.workable.com", "acme-labs", false},
		{"https://www.workable.com", "", true},
		{"https://careers.acme.dev", "", true},
	}
	for _, c := range cases {
		got, err := ExtractSlug(c.url)
		if c.wantErr != (err != nil) {
			t.Errorf("ExtractSlug(%q) err = %v", c.url, err)
			continue
		}
		if got != c.want {
			t.Errorf("ExtractSlug(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}

func TestFetchAPIWidget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "name": "Acme",
  "jobs": [
    {
      "title": "Data Engineer",
      "shortcode": "DA01",
      "url": "https://apply.workable.com/acme/j/DA01/",
      "department": "Data",
      "city": "Berlin",
      "country": "Germany",
      "telecommuting": true,
      "published_on": "2026-08-02",
      "description": "<p>Pipelines.</p>"
    }
  ]
}`))
	}))
	defer srv.Close()

	a := New(nil, "test-agent")
	a.apiBase = srv.URL

	jobs, err := a.fetchAPI(context.Background(), "acme")
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs", len(jobs))
	}

	j := jobs[0]
	if j.JobUID != "workable_DA01" {
		t.Errorf("job_uid = %q", j.JobUID)
	}
	if j.LocationRaw == nil || *j.LocationRaw != "Remote, Berlin, Germany" {
		t.Errorf("location = %v", j.LocationRaw)
	}
	if j.Remote == nil || !*j.Remote {
		t.Errorf("remote = %v, want true from telecommuting", j.Remote)
	}
	if j.PostedAt == nil || j.PostedAt.Format("2006-01-02") != "2026-08-02" {
		t.Errorf("posted_at = %v", j.PostedAt)
	}
}

func TestFetchAPIEmptyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name": "Acme", "jobs": []}`))
	}))
	defer srv.Close()

	a := New(nil, "test-agent")
	a.apiBase = srv.URL

	if _, err := a.fetchAPI(context.Background(), "acme"); err == nil {
		t.Fatal("want error so the html fallback gets a chance")
	}
}
