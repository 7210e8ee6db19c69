package polymer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
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

// Polymer boards live at jobs.polymer.co/<company>. The postings endpoint
// answers in several shapes depending on board age, so the decode is a
// fixed-priority union; boards without a working endpoint fall back to the
// shared HTML cascade.

var slugPattern = regexp.MustCompile(`(?i)jobs\.polymer\.co/([A-Za-z0-9_-]+)`)

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
		apiBase: "https://jobs.polymer.co/api/v1/companies",
	}
}

func (a *Adapter) Platform() string { return "polymer" }

// Known response shapes, tried in fixed priority order: {"jobs": [...]},
// {"job_posts": [...]}, bare array.
type apiResponse struct {
	Jobs     []apiPosting `json:"jobs"`
	JobPosts []apiPosting `json:"job_posts"`
}

type apiPosting struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Location    string `json:"location"`
	Team        string `json:"team"`
	Remote      *bool  `json:"remote"`
	PublishedAt string `json:"published_at"`
	Description string `json:"description"` // html
}

func decodePostings(data []byte) ([]apiPosting, error) {
	var wrapped apiResponse
	if err := json.Unmarshal(data, &wrapped); err == nil {
		if len(wrapped.Jobs) > 0 {
			return wrapped.Jobs, nil
		}
		if len(wrapped.JobPosts) > 0 {
			return wrapped.JobPosts, nil
		}
	}
	var bare []apiPosting
	if err := json.Unmarshal(data, &bare); err == nil && len(bare) > 0 {
		return bare, nil
	}
	return nil, fmt.Errorf("polymer: response matched no known shape")
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
		return nil, fmt.Errorf("polymer: api failed (%v); html fallback failed: %w", apiErr, htmlErr)
	}
	return jobs, nil
}

func (a *Adapter) fetchAPI(ctx context.Context, slug string) ([]domain.NormalizedJob, error) {
	apiURL := fmt.Sprintf("%s/%s/jobs", a.apiBase, url.PathEscape(slug))

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
		return nil, fmt.Errorf("polymer get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("polymer status %d for board %q", res.StatusCode, slug)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("polymer read: %w", err)
	}

	postings, err := decodePostings(body)
	if err != nil {
		return nil, err
	}

	out := make([]domain.NormalizedJob, 0, len(postings))
	seen := map[string]bool{}
	for _, p := range postings {
		title := util.CleanText(p.Title)
		if title == "" {
			continue
		}

		jobURL := strings.TrimSpace(p.URL)
		if jobURL == "" {
			jobURL = fmt.Sprintf("https://jobs.polymer.co/%s/%s", slug, url.PathEscape(firstNonEmpty(p.Slug, p.ID)))
		}

		uid := util.JobUID("polymer", firstNonEmpty(p.ID, p.Slug), jobURL, title)
		if seen[uid] {
			continue
		}
		seen[uid] = true

		nj := domain.NormalizedJob{
			JobUID: uid,
			Title:  title,
			JobURL: jobURL,
			Team:   util.StrPtr(p.Team),
		}

		loc := util.NormalizeLocation(p.Location)
		nj.LocationRaw = util.StrPtr(loc)

		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, strings.TrimSpace(p.PublishedAt)); err == nil {
				nj.PostedAt = &t
				break
			}
		}

		desc := util.HTMLToText(p.Description)
		nj.FullDescription = util.StrPtr(desc)
		nj.DescriptionSnippet = util.StrPtr(util.Snippet(desc, 500))

		if p.Remote != nil {
			nj.Remote = p.Remote
		} else {
			nj.Remote = util.InferRemote(loc, title, desc)
		}

		out = append(out, nj)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("polymer: board %q postings all lacked titles", slug)
	}
	return out, nil
}

func (a *Adapter) fetchHTML(ctx context.Context, careersURL string) ([]domain.NormalizedJob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, careersURL, nil)
	if err != nil {
		return nil, fmt.Errorf("polymer html request: %w", err)
	}
	req.Header.Set("User-Agent", a.ua)

	if a.limiter != nil {
		if err := a.limiter.WaitURL(ctx, careersURL); err != nil {
			return nil, err
		}
	}

	res, err := a.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polymer html get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("polymer html status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("polymer parse html: %w", err)
	}

	base, _ := url.Parse(careersURL)
	pattern, postings := extract.FirstNonEmpty(doc, base,
		extract.Extractor{Name: "json-ld", Run: extract.JSONLD},
		extract.Extractor{Name: "embedded-json", Run: extract.EmbeddedJSON},
		extract.Extractor{Name: "job-path-anchors", Run: extract.JobPathAnchors},
		extract.Extractor{Name: "keyword-anchors", Run: extract.KeywordAnchors},
	)
	if len(postings) == 0 {
		return nil, fmt.Errorf("polymer: no extraction pattern matched %q", careersURL)
	}

	log.Printf("[polymer] url=%q pattern=%s jobs=%d", careersURL, pattern, len(postings))
	return extract.Normalize("polymer", careersURL, postings), nil
}

// ExtractSlug pulls the company slug out of a Polymer careers URL.
func ExtractSlug(careersURL string) (string, error) {
	if m := slugPattern.FindStringSubmatch(strings.TrimSpace(careersURL)); m != nil {
		return strings.ToLower(m[1]), nil
	}
	return "", fmt.Errorf("polymer: cannot extract company slug from %q", careersURL)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
