// Package extract holds the layered HTML extraction patterns shared by the
// scraping adapters. Each pattern is a pure function over a parsed document;
// an adapter orders them by confidence and takes the first non-empty result,
// so low-confidence heuristics never add noise once a precise pattern hit.
package extract

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobradar-engine/internal/scrape/util"
)

// Posting is the raw extraction result, before normalization. Empty string
// means the pattern found nothing for that field.
type Posting struct {
	VendorID    string
	Title       string
	URL         string
	Location    string
	Department  string
	Description string
	PostedAt    *time.Time
}

type Extractor struct {
	Name string
	Run  func(doc *goquery.Document, base *url.URL) []Posting
}

// FirstNonEmpty runs extractors in priority order and returns the name and
// results of the first one that yields anything.
func FirstNonEmpty(doc *goquery.Document, base *url.URL, extractors ...Extractor) (string, []Posting) {
	for _, ex := range extractors {
		if out := ex.Run(doc, base); len(out) > 0 {
			return ex.Name, out
		}
	}
	return "", nil
}

func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(strings.ToLower(href), "javascript:") ||
		strings.HasPrefix(strings.ToLower(href), "mailto:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return ""
	}
	ref.Fragment = ""
	return ref.String()
}

func cleanText(s string) string { return util.CleanText(s) }
