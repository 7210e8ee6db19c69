package lever

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/scrape/util"
)

// Lever's public postings API is authoritative; like Greenhouse, no HTML
// fallback is attempted, API errors surface directly.

var slugPattern = regexp.MustCompile(`(?i)jobs(?:\.eu)?\.lever\.co/([A-Za-z0-9_-]+)`)

type Adapter struct {
	hc      *http.Client
	limiter *util.HostLimiter
	ua      string
	apiBase string
}

func New(limiter *util.HostLimiter, ua string) *Adapter {
	return &Adapter{
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
		ua:      ua,
		apiBase: "https://api.lever.co/v0/postings",
	}
}

func (a *Adapter) Platform() string { return "lever" }

type posting struct {
	ID         string `json:"id"`
	Text       string `json:"text"` // title
	HostedURL  string `json:"hostedUrl"`
	CreatedAt  int64  `json:"createdAt"` // ms epoch
	Categories struct {
		Location string `json:"location"`
		Team     string `json:"team"`
	} `json:"categories"`
	Description string `json:"description"` // html
}

func (a *Adapter) FetchJobs(ctx context.Context, co domain.Company) ([]domain.NormalizedJob, error) {
	slug, err := ExtractSlug(co.CareersURL)
	if err != nil {
		return nil, err
	}

	apiURL := fmt.Sprintf("%s/%s?mode=json", a.apiBase, url.PathEscape(slug))

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
		return nil, fmt.Errorf("lever get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("lever status %d for company %q", res.StatusCode, slug)
	}

	var postings []posting
	if err := json.NewDecoder(res.Body).Decode(&postings); err != nil {
		return nil, fmt.Errorf("lever decode: %w", err)
	}

	out := make([]domain.NormalizedJob, 0, len(postings))
	for _, p := range postings {
		title := util.CleanText(p.Text)
		if p.ID == "" || title == "" {
			continue
		}

		nj := domain.NormalizedJob{
			JobUID: util.JobUID("lever", p.ID, p.HostedURL, title),
			Title:  title,
			JobURL: strings.TrimSpace(p.HostedURL),
			Team:   util.StrPtr(p.Categories.Team),
		}

		loc := util.NormalizeLocation(p.Categories.Location)
		nj.LocationRaw = util.StrPtr(loc)

		if p.CreatedAt > 0 {
			t := time.UnixMilli(p.CreatedAt).UTC()
			nj.PostedAt = &t
		}

		// Lever descriptions arrive as HTML; flatten to readable text
		desc := util.HTMLToText(p.Description)
		nj.FullDescription = util.StrPtr(desc)
		nj.DescriptionSnippet = util.StrPtr(util.Snippet(desc, 500))
		nj.Remote = util.InferRemote(loc, title, desc)

		out = append(out, nj)
	}

	return out, nil
}

// ExtractSlug pulls the company slug out of a Lever careers URL.
func ExtractSlug(careersURL string) (string, error) {
	if m := slugPattern.FindStringSubmatch(strings.TrimSpace(careersURL)); m != nil {
		return strings.ToLower(m[1]), nil
	}
	return "", fmt.Errorf("lever: cannot extract company slug from %q", careersURL)
}
