package workable

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/scrape/extract"
	"jobradar-engine/internal/scrape/util"
)

// Workable boards live at apply.workable.com/<account> (or the legacy
// <account>.workable.com). The widget API covers most accounts; boards
// that block it fall back to the shared HTML cascade.

var slugPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)apply\.workable\.com/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`(?i)://([A-Za-z0-9-]+)\.workable\.com`),
}

type Adapter struct {
	hc      *http.Client
	limiter *util.HostLimiter
	ua      string
	apiBase string
}

func New(limiter *util.HostLimiter, ua string) *Adapter {
	return &Adapter{
		hc:      &http.Client{Timeout: 25 * time.Second},
		limiter: limiter,
		ua:      ua,
		apiBase: "https://apply.workable.com/api/v1/widget/accounts",
	}
}

func (a *Adapter) Platform() string { return "workable" }

type widgetResponse struct {
	Name string      `json:"name"`
	Jobs []widgetJob `json:"jobs"`
}

type widgetJob struct {
	Title       string `json:"title"`
	Shortcode   string `json:"shortcode"`
	Code        string `json:"code"`
	URL         string `json:"url"`
	Department  string `json:"department"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	Telecommute bool   `json:"telecommuting"`
	PublishedOn string `json:"published_on"` // YYYY-MM-DD
	Description string `json:"description"`  // html
}

func (a *Adapter) FetchJobs(ctx context.Context, co domain.Company) ([]domain.NormalizedJob, error) {
	slug, err := ExtractSlug(co.CareersURL)
	if err != nil {
		return nil, err
	}

	jobs, apiErr := a.fetchAPI(ctx, slug)
	if apiErr == nil {
		return jobs, nil
	}

	jobs, htmlErr := a.fetchHTML(ctx, co.CareersURL)
	if htmlErr != nil {
		return nil, fmt.Errorf("workable: api failed (%v); html fallback failed: %w", apiErr, htmlErr)
	}
	return jobs, nil
}

func (a *Adapter) fetchAPI(ctx context.Context, slug string) ([]domain.NormalizedJob, error) {
	apiURL := fmt.Sprintf("%s/%s?details=true", a.apiBase, url.PathEscape(slug))

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	req.Header.Set("User-Agent", a.ua)
	req.Header.Set("Accept", "application/json")

	if a.limiter != nil {
		if err := a.limiter.WaitURL(ctx, apiURL); err != nil {
			return nil, err
		}
	}

	res, err := a.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("workable get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("workable status %d for account %q", res.StatusCode, slug)
	}

	var wr widgetResponse
	if err := json.NewDecoder(res.Body).Decode(&wr); err != nil {
		return nil, fmt.Errorf("workable decode: %w", err)
	}
	if len(wr.Jobs) == 0 {
		return nil, fmt.Errorf("workable: account %q returned no jobs", slug)
	}

	out := make([]domain.NormalizedJob, 0, len(wr.Jobs))
	for _, j := range wr.Jobs {
		title := util.CleanText(j.Title)
		if title == "" {
			continue
		}

		jobURL := strings.TrimSpace(j.URL)
		if jobURL == "" {
			jobURL = fmt.Sprintf("https://apply.workable.com/%s/j/%s/", slug, firstNonEmpty(j.Shortcode, j.Code))
		}

		nj := domain.NormalizedJob{
			JobUID: util.JobUID("workable", firstNonEmpty(j.Shortcode, j.Code), jobURL, title),
			Title:  title,
			JobURL: jobURL,
			Team:   util.StrPtr(j.Department),
		}

		loc := util.NormalizeLocation(joinNonEmpty(", ", j.City, j.State, j.Country))
		if j.Telecommute {
			loc = joinNonEmpty(", ", "Remote", loc)
		}
		nj.LocationRaw = util.StrPtr(loc)

		if t, err := time.Parse("2006-01-02", strings.TrimSpace(j.PublishedOn)); err == nil {
			nj.PostedAt = &t
		}

		desc := util.HTMLToText(j.Description)
		nj.FullDescription = util.StrPtr(desc)
		nj.DescriptionSnippet = util.StrPtr(util.Snippet(desc, 500))
		nj.Remote = util.InferRemote(loc, title, desc)

		out = append(out, nj)
	}

	return out, nil
}

func (a *Adapter) fetchHTML(ctx context.Context, careersURL string) ([]domain.NormalizedJob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, careersURL, nil)
	if err != nil {
		return nil, fmt.Errorf("workable html request: %w", err)
	}
	req.Header.Set("User-Agent", a.ua)

	if a.limiter != nil {
		if err := a.limiter.WaitURL(ctx, careersURL); err != nil {
			return nil, err
		}
	}

	res, err := a.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("workable html get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("workable html status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("workable parse html: %w", err)
	}

	base, _ := url.Parse(careersURL)
	pattern, postings := extract.FirstNonEmpty(doc, base,
		extract.Extractor{Name: "json-ld", Run: extract.JSONLD},
		extract.Extractor{Name: "embedded-json", Run: extract.EmbeddedJSON},
		extract.Extractor{Name: "job-path-anchors", Run: extract.JobPathAnchors},
		extract.Extractor{Name: "keyword-anchors", Run: extract.KeywordAnchors},
	)
	if len(postings) == 0 {
		return nil, fmt.Errorf("workable: no extraction pattern matched %q", careersURL)
	}

	log.Printf("[workable] url=%q pattern=%s jobs=%d", careersURL, pattern, len(postings))
	return extract.Normalize("workable", careersURL, postings), nil
}

// ExtractSlug pulls the account slug out of a Workable careers URL.
func ExtractSlug(careersURL string) (string, error) {
	raw := strings.TrimSpace(careersURL)
	for _, re := range slugPatterns {
		if m := re.FindStringSubmatch(raw); m != nil {
			slug := strings.ToLower(m[1])
			if slug != "" && slug != "www" && slug != "apply" {
				return slug, nil
			}
		}
	}
	return "", fmt.Errorf("workable: cannot extract account slug from %q", careersURL)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func joinNonEmpty(sep string, vals ...string) string {
	var parts []string
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}
