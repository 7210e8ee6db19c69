package generic

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/scrape/extract"
	"jobradar-engine/internal/scrape/util"
)

// Generic handles companies on no recognized vendor: it fetches the careers
// page directly and runs the shared extraction cascade, most precise pattern
// first. Anything structured (json-ld, embedded state) wins over anchor
// heuristics.

type Adapter struct {
	hc      *http.Client
	limiter *util.HostLimiter
	ua      string
}

func New(limiter *util.HostLimiter, ua string) *Adapter {
	return &Adapter{
		hc:      &http.Client{Timeout: 30 * time.Second},
		limiter: limiter,
		ua:      ua,
	}
}

func (a *Adapter) Platform() string { return "generic" }

func (a *Adapter) FetchJobs(ctx context.Context, co domain.Company) ([]domain.NormalizedJob, error) {
	careersURL := co.CareersURL
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, careersURL, nil)
	if err != nil {
		return nil, fmt.Errorf("generic request: %w", err)
	}
	req.Header.Set("User-Agent", a.ua)

	if a.limiter != nil {
		if err := a.limiter.WaitURL(ctx, careersURL); err != nil {
			return nil, err
		}
	}

	res, err := a.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generic get %q: %w", careersURL, err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("generic status %d for %q", res.StatusCode, careersURL)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("generic parse html: %w", err)
	}

	base, _ := url.Parse(careersURL)
	pattern, postings := extract.FirstNonEmpty(doc, base,
		extract.Extractor{Name: "json-ld", Run: extract.JSONLD},
		extract.Extractor{Name: "embedded-json", Run: extract.EmbeddedJSON},
		extract.Extractor{Name: "job-path-anchors", Run: extract.JobPathAnchors},
		extract.Extractor{Name: "department-sections", Run: extract.DepartmentSections},
		extract.Extractor{Name: "keyword-anchors", Run: extract.KeywordAnchors},
		extract.Extractor{Name: "heading-titles", Run: extract.HeadingTitles},
	)
	if len(postings) == 0 {
		return nil, fmt.Errorf("generic: no extraction pattern matched %q", careersURL)
	}

	log.Printf("[generic] url=%q pattern=%s jobs=%d", careersURL, pattern, len(postings))
	return extract.Normalize("generic", careersURL, postings), nil
}
