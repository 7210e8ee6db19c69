package greenhouse

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/scrape/util"
)

// Greenhouse exposes a reliable public board API, so this adapter is
// API-only: a failed call surfaces as an error with no HTML fallback.

var slugPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:boards|job-boards)\.greenhouse\.io/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`(?i)greenhouse\.io/embed/job_board\?[^#]*\bfor=([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`(?i)greenhouse\.io/([A-Za-z0-9_-]+)`),
}

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
		apiBase: "https://boards-api.greenhouse.io/v1/boards",
	}
}

func (a *Adapter) Platform() string { return "greenhouse" }

type boardResponse struct {
	Jobs []boardJob `json:"jobs"`
}

type boardJob struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
	Content     string `json:"content"` // HTML, entity-escaped
	Departments []struct {
		Name string `json:"name"`
	} `json:"departments"`
}

func (a *Adapter) FetchJobs(ctx context.Context, co domain.Company) ([]domain.NormalizedJob, error) {
	slug, err := ExtractSlug(co.CareersURL)
	if err != nil {
		return nil, err
	}

	apiURL := fmt.Sprintf("%s/%s/jobs?content=true", a.apiBase, url.PathEscape(slug))

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
		return nil, fmt.Errorf("greenhouse get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("greenhouse status %d for board %q", res.StatusCode, slug)
	}

	var br boardResponse
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		return nil, fmt.Errorf("greenhouse decode: %w", err)
	}

	out := make([]domain.NormalizedJob, 0, len(br.Jobs))
	for _, j := range br.Jobs {
		title := util.CleanText(j.Title)
		if title == "" || j.AbsoluteURL == "" {
			continue
		}

		nj := domain.NormalizedJob{
			JobUID: util.JobUID("greenhouse", strconv.FormatInt(j.ID, 10), j.AbsoluteURL, title),
			Title:  title,
			JobURL: strings.TrimSpace(j.AbsoluteURL),
		}
		if len(j.Departments) > 0 {
			nj.Team = util.StrPtr(j.Departments[0].Name)
		}
		loc := util.NormalizeLocation(j.Location.Name)
		nj.LocationRaw = util.StrPtr(loc)

		if t, err := time.Parse(time.RFC3339, j.UpdatedAt); err == nil {
			nj.PostedAt = &t
		}

		// content arrives entity-escaped; unescape before stripping tags
		desc := util.HTMLToText(html.UnescapeString(j.Content))
		nj.FullDescription = util.StrPtr(desc)
		nj.DescriptionSnippet = util.StrPtr(util.Snippet(desc, 500))
		nj.Remote = util.InferRemote(loc, title, desc)

		out = append(out, nj)
	}

	return out, nil
}

// ExtractSlug pulls the board slug out of a Greenhouse careers URL.
func ExtractSlug(careersURL string) (string, error) {
	raw := strings.TrimSpace(careersURL)
	for _, re := range slugPatterns {
		if m := re.FindStringSubmatch(raw); m != nil {
			slug := strings.ToLower(m[1])
			if slug != "" && slug != "embed" {
				return slug, nil
			}
		}
	}
	return "", fmt.Errorf("greenhouse: cannot extract board slug from %q", careersURL)
}
