package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DepartmentSections finds department headings (h2..h4 matching the
// department vocabulary) and collects job links from the content that
// follows each heading until the next one.
func DepartmentSections(doc *goquery.Document, base *url.URL) []Posting {
	var out []Posting
	seen := map[string]bool{}

	doc.Find("h2, h3, h4").Each(func(_ int, h *goquery.Selection) {
		dept := cleanText(h.Text())
		if !looksLikeDepartment(dept) {
			return
		}

		// anchors between this heading and the next: siblings first, then
		// the parent container for list-in-wrapper layouts
		h.NextUntil("h2, h3, h4").Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			appendHeadingAnchor(&out, seen, base, dept, a)
		})
		if len(out) == 0 {
			h.Parent().Find("a[href]").Each(func(_ int, a *goquery.Selection) {
				appendHeadingAnchor(&out, seen, base, dept, a)
			})
		}
	})

	return out
}

func appendHeadingAnchor(out *[]Posting, seen map[string]bool, base *url.URL, dept string, a *goquery.Selection) {
	href, _ := a.Attr("href")
	abs := resolveHref(base, href)
	title := cleanText(a.Text())
	if abs == "" || title == "" || Excluded(title) {
		return
	}
	key := abs + "|" + strings.ToLower(title)
	if seen[key] {
		return
	}
	seen[key] = true
	*out = append(*out, Posting{Title: title, URL: abs, Department: dept})
}

// HeadingTitles is the weakest pattern: plain heading/strong text that
// passes the job-title vocabulary. No links, no ids; uid generation falls
// back to the title hash downstream.
func HeadingTitles(doc *goquery.Document, _ *url.URL) []Posting {
	var out []Posting
	seen := map[string]bool{}

	doc.Find("h2, h3, h4, strong").Each(func(_ int, s *goquery.Selection) {
		title := cleanText(s.Text())
		if !LooksLikeJobTitle(title) {
			return
		}
		key := strings.ToLower(title)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, Posting{Title: title})
	})

	return out
}
