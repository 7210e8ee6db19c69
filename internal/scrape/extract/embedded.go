package extract

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Known global-variable patterns that careers SPAs use to ship their job
// list inline. Each capture group must be a decodable JSON value. Fixed
// priority order; the first pattern whose payload yields postings wins.
var embeddedJSONPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)window\.__appData\s*=\s*(\{.*?\})\s*;`),
	regexp.MustCompile(`(?s)window\.__INITIAL_STATE__\s*=\s*(\{.*?\})\s*;`),
	regexp.MustCompile(`(?s)window\.__remixContext\s*=\s*(\{.*?\})\s*;`),
	regexp.MustCompile(`(?s)(?:var|let|const)\s+(?:jobs|postings|openings)\s*=\s*(\[.*?\])\s*;`),
}

// Keys a map must carry before the shape probe treats it as a job posting.
var (
	titleKeys = []string{"title", "text", "name", "jobTitle", "position"}
	urlKeys   = []string{"url", "jobUrl", "hostedUrl", "absolute_url", "applyUrl", "apply_url", "link", "href"}
	idKeys    = []string{"id", "uuid", "shortcode", "jobId", "job_id", "slug"}
	locKeys   = []string{"location", "locationName", "location_name", "city", "office"}
	deptKeys  = []string{"department", "departmentName", "team", "category"}
	descKeys  = []string{"description", "descriptionPlain", "content"}
)

// EmbeddedJSON scans inline script tags for known JSON globals and probes
// whatever decodes for arrays of job-shaped objects. Last-ditch, it also
// tries Next.js __NEXT_DATA__ payloads.
func EmbeddedJSON(doc *goquery.Document, base *url.URL) []Posting {
	var out []Posting
	seen := map[string]bool{}

	probe := func(raw string) {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return
		}
		walkForJobArrays(v, base, seen, &out)
	}

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if _, external := s.Attr("src"); external {
			return
		}
		body := s.Text()
		if id, _ := s.Attr("id"); id == "__NEXT_DATA__" {
			probe(strings.TrimSpace(body))
			return
		}
		for _, re := range embeddedJSONPatterns {
			for _, m := range re.FindAllStringSubmatch(body, -1) {
				probe(m[1])
			}
		}
	})

	return out
}

// walkForJobArrays recursively looks for []object values where most
// elements look like postings. Ad hoc field sniffing stays contained here.
func walkForJobArrays(v any, base *url.URL, seen map[string]bool, out *[]Posting) {
	switch t := v.(type) {
	case map[string]any:
		for _, child := range t {
			walkForJobArrays(child, base, seen, out)
		}
	case []any:
		var batch []Posting
		for _, item := range t {
			m, ok := item.(map[string]any)
			if !ok {
				batch = nil
				break
			}
			p, ok := postingFromMap(m, base)
			if !ok {
				continue
			}
			batch = append(batch, p)
		}
		if len(batch) > 0 {
			for _, p := range batch {
				key := p.VendorID + "|" + p.URL + "|" + strings.ToLower(p.Title)
				if seen[key] {
					continue
				}
				seen[key] = true
				*out = append(*out, p)
			}
			return
		}
		for _, item := range t {
			walkForJobArrays(item, base, seen, out)
		}
	}
}

func postingFromMap(m map[string]any, base *url.URL) (Posting, bool) {
	title := cleanText(firstString(m, titleKeys))
	if title == "" || Excluded(title) {
		return Posting{}, false
	}

	p := Posting{
		VendorID:    cleanText(firstString(m, idKeys)),
		Title:       title,
		URL:         resolveHref(base, firstString(m, urlKeys)),
		Location:    cleanText(firstString(m, locKeys)),
		Department:  cleanText(firstString(m, deptKeys)),
		Description: firstString(m, descKeys),
	}

	// a bare title with neither a link nor a vendor id is not enough
	if p.URL == "" && p.VendorID == "" {
		return Posting{}, false
	}
	return p, true
}

func firstString(m map[string]any, keys []string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return v
			}
		case float64:
			// numeric vendor ids arrive as float64 from encoding/json
			if k == "id" || k == "jobId" || k == "job_id" {
				return strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
	}
	return ""
}
