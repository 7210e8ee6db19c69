package ashby

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/scrape/extract"
	"jobradar-engine/internal/scrape/util"
)

// HTML fallback: five patterns ordered by confidence, each attempted only
// if everything above it produced zero results. Once a precise pattern
// hits, the noisy heuristics below it never run.
func (a *Adapter) extractors() []extract.Extractor {
	return []extract.Extractor{
		{Name: "ashby-brief-list", Run: briefList},
		{Name: "department-sections", Run: extract.DepartmentSections},
		{Name: "keyword-anchors", Run: extract.KeywordAnchors},
		{Name: "embedded-json", Run: extract.EmbeddedJSON},
		{Name: "heading-titles", Run: extract.HeadingTitles},
	}
}

func (a *Adapter) fetchHTML(ctx context.Context, careersURL, slug string) ([]domain.NormalizedJob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, careersURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ashby html request: %w", err)
	}
	req.Header.Set("User-Agent", a.ua)

	if a.limiter != nil {
		if err := a.limiter.WaitURL(ctx, careersURL); err != nil {
			return nil, err
		}
	}

	res, err := a.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ashby html get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("ashby html status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("ashby parse html: %w", err)
	}

	base, _ := url.Parse(careersURL)
	pattern, postings := extract.FirstNonEmpty(doc, base, a.extractors()...)
	if len(postings) == 0 {
		return nil, fmt.Errorf("ashby: no extraction pattern matched board %q", slug)
	}

	out := make([]domain.NormalizedJob, 0, len(postings))
	seen := map[string]bool{}
	for _, p := range postings {
		uid := util.JobUID("ashby", p.VendorID, p.URL, p.Title)
		if seen[uid] {
			continue
		}
		seen[uid] = true

		jobURL := p.URL
		if jobURL == "" {
			jobURL = careersURL
		}

		loc := util.NormalizeLocation(p.Location)
		nj := domain.NormalizedJob{
			JobUID:      uid,
			Title:       p.Title,
			JobURL:      jobURL,
			Team:        util.StrPtr(p.Department),
			LocationRaw: util.StrPtr(loc),
			PostedAt:    p.PostedAt,
			Remote:      util.InferRemote(loc, p.Title, p.Description),
		}
		if p.Description != "" {
			nj.FullDescription = util.StrPtr(p.Description)
			nj.DescriptionSnippet = util.StrPtr(util.Snippet(p.Description, 500))
		}
		out = append(out, nj)
	}

	log.Printf("[ashby] board=%q pattern=%s jobs=%d", slug, pattern, len(out))
	return out, nil
}

// briefList matches Ashby's own rendered markup: posting links carry an
// "ashby-job-posting-brief" class, grouped under department headings.
// Most precise pattern, so it runs first.
func briefList(doc *goquery.Document, base *url.URL) []extract.Posting {
	var out []extract.Posting
	seen := map[string]bool{}

	doc.Find(`a[class*="ashby-job-posting-brief"], div[class*="ashby-job-posting-brief"] a[href]`).
		Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			abs := resolveHref(base, href)
			if abs == "" {
				return
			}

			// title is the first heading inside the card, else the link text
			title := strings.TrimSpace(a.Find("h3, h4, p").First().Text())
			if title == "" {
				title = strings.TrimSpace(a.Text())
			}
			title = util.CleanText(title)
			if title == "" || extract.Excluded(title) {
				return
			}

			if seen[abs] {
				return
			}
			seen[abs] = true

			p := extract.Posting{Title: title, URL: abs}
			if dept := nearestDepartmentHeading(a); dept != "" {
				p.Department = dept
			}
			out = append(out, p)
		})

	return out
}

func nearestDepartmentHeading(a *goquery.Selection) string {
	for sel := a; sel.Length() > 0; sel = sel.Parent() {
		if h := sel.PrevAll().Filter("h2, h3").First(); h.Length() > 0 {
			return util.CleanText(h.Text())
		}
	}
	return ""
}

func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
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
