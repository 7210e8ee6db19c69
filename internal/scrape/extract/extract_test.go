package extract

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	return u
}

func TestJSONLD(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "JobPosting",
  "title": "Backend Engineer",
  "url": "/careers/backend-engineer",
  "datePosted": "2026-08-01",
  "jobLocationType": "TELECOMMUTE",
  "identifier": {"@type": "PropertyValue", "value": "bk-17"},
  "jobLocation": {"@type": "Place", "address": {"addressLocality": "Lisbon", "addressCountry": "PT"}}
}
</script>
</head><body></body></html>`

	base := mustURL(t, "https://acme.dev/careers")
	out := JSONLD(parseDoc(t, html), base)
	if len(out) != 1 {
		t.Fatalf("got %d postings, want 1", len(out))
	}
	p := out[0]
	if p.Title != "Backend Engineer" {
		t.Errorf("title = %q", p.Title)
	}
	if p.VendorID != "bk-17" {
		t.Errorf("vendor id = %q", p.VendorID)
	}
	if p.URL != "https://acme.dev/careers/backend-engineer" {
		t.Errorf("url = %q", p.URL)
	}
	if !strings.Contains(p.Location, "Remote") || !strings.Contains(p.Location, "Lisbon") {
		t.Errorf("location = %q, want telecommute folded in", p.Location)
	}
	if p.PostedAt == nil || p.PostedAt.Format("2006-01-02") != "2026-08-01" {
		t.Errorf("posted_at = %v", p.PostedAt)
	}
}

func TestJSONLDGraphArray(t *testing.T) {
	html := `<script type="application/ld+json">
{"@graph": [
  {"@type": "Organization", "name": "Acme"},
  {"@type": "JobPosting", "title": "Data Analyst", "url": "https://acme.dev/jobs/1"},
  {"@type": ["JobPosting"], "title": "SRE", "url": "https://acme.dev/jobs/2"}
]}
</script>`
	out := JSONLD(parseDoc(t, html), nil)
	if len(out) != 2 {
		t.Fatalf("got %d postings, want 2", len(out))
	}
}

func TestJobPathAnchors(t *testing.T) {
	html := `<body>
<a href="/jobs/101">Senior Platform Engineer</a>
<a href="/jobs/102">Engineering Manager, Infrastructure</a>
<a href="/about">About our engineering team and culture page</a>
<a href="/jobs/101">Senior Platform Engineer</a>
<a href="https://acme.dev/careers">All openings</a>
</body>`

	base := mustURL(t, "https://acme.dev/careers")
	out := JobPathAnchors(parseDoc(t, html), base)
	if len(out) != 2 {
		t.Fatalf("got %d postings, want 2: %+v", len(out), out)
	}
	if out[0].URL != "https://acme.dev/jobs/101" {
		t.Errorf("url = %q", out[0].URL)
	}
}

func TestKeywordAnchorsRequiresVocabulary(t *testing.T) {
	html := `<body>
<a href="/p/1">Senior Software Engineer</a>
<a href="/p/2">A headline without matching words</a>
</body>`
	base := mustURL(t, "https://acme.dev/")
	out := KeywordAnchors(parseDoc(t, html), base)
	if len(out) != 1 || out[0].Title != "Senior Software Engineer" {
		t.Fatalf("got %+v", out)
	}
}

// Once a higher-priority pattern yields results, lower ones must not run.
func TestFirstNonEmptyOrdering(t *testing.T) {
	html := `<body>
<a href="/jobs/1">Senior Platform Engineer</a>
<a href="/p/2">Product Designer, Growth</a>
</body>`
	base := mustURL(t, "https://acme.dev/careers")
	doc := parseDoc(t, html)

	ranLower := false
	name, out := FirstNonEmpty(doc, base,
		Extractor{Name: "job-path-anchors", Run: JobPathAnchors},
		Extractor{Name: "keyword-anchors", Run: func(d *goquery.Document, b *url.URL) []Posting {
			ranLower = true
			return KeywordAnchors(d, b)
		}},
	)

	if name != "job-path-anchors" {
		t.Fatalf("winning pattern = %q", name)
	}
	if ranLower {
		t.Fatal("lower-priority pattern ran after a higher one matched")
	}
	if len(out) != 1 {
		t.Fatalf("got %d postings, want 1", len(out))
	}
}

func TestNormalizeDedupesAndFallsBack(t *testing.T) {
	postings := []Posting{
		{Title: "Platform Engineer", URL: "https://acme.dev/jobs/1"},
		{Title: "Platform Engineer", URL: "https://acme.dev/jobs/1"},
		{Title: "Support Engineer", Location: "Remote"},
	}
	out := Normalize("generic", "https://acme.dev/careers", postings)
	if len(out) != 2 {
		t.Fatalf("got %d jobs, want 2", len(out))
	}
	if out[1].JobURL != "https://acme.dev/careers" {
		t.Errorf("fallback url = %q", out[1].JobURL)
	}
	if out[1].Remote == nil || !*out[1].Remote {
		t.Errorf("remote = %v, want true", out[1].Remote)
	}
	if out[0].JobUID == out[1].JobUID {
		t.Error("distinct postings share a uid")
	}
}
