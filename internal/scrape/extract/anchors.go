package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// JobPathSegments scope the anchor scan to URLs that look like individual
// postings on common ATS and hand-rolled careers sites.
var JobPathSegments = []string{
	"/job/", "/jobs/", "/careers/", "/career/", "/openings/",
	"/positions/", "/vacancies/", "/roles/", "/j/",
}

// JobPathAnchors collects anchors whose resolved href contains a known job
// path segment. Titles come from the anchor text; exclusions and length
// bounds still apply, but no keyword vocabulary is required since the URL
// shape already carries signal.
func JobPathAnchors(doc *goquery.Document, base *url.URL) []Posting {
	return scanAnchors(doc, base, func(href, title string) bool {
		if Excluded(title) {
			return false
		}
		low := strings.ToLower(href)
		for _, seg := range JobPathSegments {
			if strings.Contains(low, seg) {
				return true
			}
		}
		return false
	})
}

// KeywordAnchors is the last-resort anchor scan: any link whose text passes
// the job-title vocabulary. No URL-shape signal, so the strict filter runs.
func KeywordAnchors(doc *goquery.Document, base *url.URL) []Posting {
	return scanAnchors(doc, base, func(_, title string) bool {
		return LooksLikeJobTitle(title)
	})
}

func scanAnchors(doc *goquery.Document, base *url.URL, keep func(href, title string) bool) []Posting {
	var out []Posting
	seen := map[string]bool{}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		abs := resolveHref(base, href)
		if abs == "" {
			return
		}
		// skip listing/index pages; we want individual postings
		if base != nil && strings.TrimRight(abs, "/") == strings.TrimRight(base.String(), "/") {
			return
		}

		title := cleanText(a.Text())
		if title == "" || !keep(abs, title) {
			return
		}

		key := abs + "|" + strings.ToLower(title)
		if seen[key] {
			return
		}
		seen[key] = true

		out = append(out, Posting{Title: title, URL: abs})
	})

	return out
}
