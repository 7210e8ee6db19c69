package extract

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobradar-engine/internal/scrape/util"
)

// JSONLD pulls schema.org JobPosting structured data out of
// script[type="application/ld+json"] blocks. Highest-trust source on an
// arbitrary careers page: parse once, trust fully, no keyword filtering.
func JSONLD(doc *goquery.Document, base *url.URL) []Posting {
	var out []Posting
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return
		}
		collectJobPostings(v, base, &out)
	})
	return out
}

// collectJobPostings walks a decoded ld+json value: a single object, a
// top-level array, or an object carrying an @graph list.
func collectJobPostings(v any, base *url.URL, out *[]Posting) {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			collectJobPostings(item, base, out)
		}
	case map[string]any:
		if graph, ok := t["@graph"].([]any); ok {
			for _, item := range graph {
				collectJobPostings(item, base, out)
			}
		}
		if !isJobPostingType(t["@type"]) {
			return
		}
		if p, ok := jobPostingFrom(t, base); ok {
			*out = append(*out, p)
		}
	}
}

func isJobPostingType(v any) bool {
	switch t := v.(type) {
	case string:
		return strings.EqualFold(t, "JobPosting")
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.EqualFold(s, "JobPosting") {
				return true
			}
		}
	}
	return false
}

func jobPostingFrom(m map[string]any, base *url.URL) (Posting, bool) {
	title := cleanText(str(m["title"]))
	if title == "" {
		return Posting{}, false
	}

	p := Posting{
		Title:       title,
		URL:         resolveHref(base, str(m["url"])),
		Location:    jobLocationText(m["jobLocation"]),
		Description: util.HTMLToText(str(m["description"])),
	}

	if id, ok := m["identifier"].(map[string]any); ok {
		p.VendorID = cleanText(str(id["value"]))
	}
	if dept, ok := m["employmentUnit"].(map[string]any); ok {
		p.Department = cleanText(str(dept["name"]))
	}
	if d := cleanText(str(m["datePosted"])); d != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, d); err == nil {
				p.PostedAt = &t
				break
			}
		}
	}

	// "TELECOMMUTE" jobLocationType is the structured remote marker; fold
	// it into the location text for the shared heuristic downstream.
	if strings.EqualFold(str(m["jobLocationType"]), "TELECOMMUTE") {
		if p.Location == "" {
			p.Location = "Remote"
		} else if !strings.Contains(strings.ToLower(p.Location), "remote") {
			p.Location = "Remote, " + p.Location
		}
	}

	return p, true
}

// jobLocationText flattens jobLocation, which may be one Place or a list.
func jobLocationText(v any) string {
	switch t := v.(type) {
	case []any:
		var parts []string
		for _, item := range t {
			if s := jobLocationText(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		if addr, ok := t["address"].(map[string]any); ok {
			var parts []string
			for _, key := range []string{"addressLocality", "addressRegion", "addressCountry"} {
				if s := cleanText(str(addr[key])); s != "" {
					parts = append(parts, s)
				}
			}
			return strings.Join(parts, ", ")
		}
		return cleanText(str(t["name"]))
	case string:
		return cleanText(t)
	}
	return ""
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
