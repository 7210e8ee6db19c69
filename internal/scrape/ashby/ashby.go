package ashby

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

// Ashby is the flakiest of the dedicated vendors: the posting API works for
// most boards but not all, and the rendered HTML changes shape often. The
// adapter goes API first, then falls back to an ordered cascade of HTML
// extraction patterns (see extractors.go).

var slugPattern = regexp.MustCompile(`(?i)jobs\.ashbyhq\.com/([^/?#\s]+)`)

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
		apiBase: "https://api.ashbyhq.com/posting-api/job-board",
	}
}

func (a *Adapter) Platform() string { return "ashby" }

// The posting API answers in one of two known shapes: {"jobs": [...]} or
// {"jobPostings": [...]}. Decode both and take them in that fixed priority
// order instead of sniffing fields ad hoc.
type apiResponse struct {
	Jobs        []apiPosting `json:"jobs"`
	JobPostings []apiPosting `json:"jobPostings"`
}

func (r apiResponse) postings() []apiPosting {
	if len(r.Jobs) > 0 {
		return r.Jobs
	}
	return r.JobPostings
}

type apiPosting struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	DepartmentName   string `json:"departmentName"`
	Department       string `json:"department"`
	TeamName         string `json:"teamName"`
	LocationName     string `json:"locationName"`
	Location         string `json:"location"`
	JobURL           string `json:"jobUrl"`
	ApplyURL         string `json:"applyUrl"`
	PublishedAt      string `json:"publishedAt"`
	PublishedDate    string `json:"publishedDate"`
	IsRemote         *bool  `json:"isRemote"`
	DescriptionHTML  string `json:"descriptionHtml"`
	DescriptionPlain string `json:"descriptionPlain"`
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

	jobs, htmlErr := a.fetchHTML(ctx, co.CareersURL, slug)
	if htmlErr != nil {
		return nil, fmt.Errorf("ashby: api failed (%v); html fallback failed: %w", apiErr, htmlErr)
	}
	return jobs, nil
}

func (a *Adapter) fetchAPI(ctx context.Context, slug string) ([]domain.NormalizedJob, error) {
	apiURL := fmt.Sprintf("%s/%s?includeCompensation=true", a.apiBase, url.PathEscape(slug))

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
		return nil, fmt.Errorf("ashby get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("ashby status %d for board %q", res.StatusCode, slug)
	}

	var ar apiResponse
	if err := json.NewDecoder(res.Body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("ashby decode: %w", err)
	}

	postings := ar.postings()
	if len(postings) == 0 {
		return nil, fmt.Errorf("ashby: board %q returned no postings in any known shape", slug)
	}

	out := make([]domain.NormalizedJob, 0, len(postings))
	seen := map[string]bool{}
	for _, p := range postings {
		title := util.CleanText(p.Title)
		if title == "" {
			continue
		}

		jobURL := strings.TrimSpace(firstNonEmpty(p.JobURL, p.ApplyURL))
		if jobURL == "" {
			jobURL = fmt.Sprintf("https://jobs.ashbyhq.com/%s/%s", slug, url.PathEscape(p.ID))
		}

		uid := util.JobUID("ashby", p.ID, jobURL, title)
		if seen[uid] {
			continue
		}
		seen[uid] = true

		nj := domain.NormalizedJob{
			JobUID: uid,
			Title:  title,
			JobURL: jobURL,
			Team:   util.StrPtr(firstNonEmpty(p.DepartmentName, p.Department, p.TeamName)),
		}

		loc := util.NormalizeLocation(firstNonEmpty(p.LocationName, p.Location))
		nj.LocationRaw = util.StrPtr(loc)

		if t := parsePublished(firstNonEmpty(p.PublishedAt, p.PublishedDate)); t != nil {
			nj.PostedAt = t
		}

		desc := p.DescriptionPlain
		if desc == "" {
			desc = util.HTMLToText(p.DescriptionHTML)
		}
		nj.FullDescription = util.StrPtr(desc)
		nj.DescriptionSnippet = util.StrPtr(util.Snippet(desc, 500))

		if p.IsRemote != nil {
			nj.Remote = p.IsRemote
		} else {
			nj.Remote = util.InferRemote(loc, title, desc)
		}

		out = append(out, nj)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("ashby: board %q postings all lacked titles", slug)
	}
	return out, nil
}

// ExtractSlug pulls the board slug out of an Ashby careers URL.
func ExtractSlug(careersURL string) (string, error) {
	if m := slugPattern.FindStringSubmatch(strings.TrimSpace(careersURL)); m != nil {
		if slug, err := url.PathUnescape(m[1]); err == nil {
			return slug, nil
		}
		return m[1], nil
	}
	return "", fmt.Errorf("ashby: cannot extract board slug from %q", careersURL)
}

func parsePublished(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
