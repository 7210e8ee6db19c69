package extract

import (
	"testing"
)

func TestEmbeddedJSONAppData(t *testing.T) {
	html := `<body><script>
window.__appData = {"board": {"jobs": [
  {"id": 101, "title": "Senior Backend Engineer", "url": "/jobs/101", "location": "Berlin"},
  {"id": 102, "title": "Apply now", "url": "/jobs/102"}
]}};
</script></body>`

	base := mustURL(t, "https://acme.dev/careers")
	out := EmbeddedJSON(parseDoc(t, html), base)
	if len(out) != 1 {
		t.Fatalf("got %d postings, want 1 (excluded title filtered): %+v", len(out), out)
	}
	p := out[0]
	if p.VendorID != "101" {
		t.Errorf("vendor id = %q, want numeric id stringified", p.VendorID)
	}
	if p.URL != "https://acme.dev/jobs/101" {
		t.Errorf("url = %q", p.URL)
	}
	if p.Location != "Berlin" {
		t.Errorf("location = %q", p.Location)
	}
}

func TestEmbeddedJSONNextData(t *testing.T) {
	html := `<script id="__NEXT_DATA__" type="application/json">
{"props": {"pageProps": {"openings": [
  {"slug": "pe-1", "title": "Platform Engineer", "href": "https://acme.dev/jobs/pe-1"}
]}}}
</script>`
	out := EmbeddedJSON(parseDoc(t, html), nil)
	if len(out) != 1 || out[0].Title != "Platform Engineer" {
		t.Fatalf("got %+v", out)
	}
}

func TestEmbeddedJSONIgnoresNonJobArrays(t *testing.T) {
	html := `<script>
window.__INITIAL_STATE__ = {"nav": ["home", "about", "contact"], "flags": [1, 2, 3]};
</script>`
	if out := EmbeddedJSON(parseDoc(t, html), nil); len(out) != 0 {
		t.Fatalf("got %+v, want nothing", out)
	}
}
