package extract

import (
	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/scrape/util"
)

// Normalize converts raw extraction results into the canonical job shape,
// deduplicating on generated uids. fallbackURL stands in for postings the
// pattern found without a link of their own.
func Normalize(platform, fallbackURL string, postings []Posting) []domain.NormalizedJob {
	out := make([]domain.NormalizedJob, 0, len(postings))
	seen := map[string]bool{}

	for _, p := range postings {
		title := cleanText(p.Title)
		if title == "" {
			continue
		}

		uid := util.JobUID(platform, p.VendorID, p.URL, title)
		if seen[uid] {
			continue
		}
		seen[uid] = true

		jobURL := p.URL
		if jobURL == "" {
			jobURL = fallbackURL
		}

		loc := util.NormalizeLocation(p.Location)
		nj := domain.NormalizedJob{
			JobUID:      uid,
			Title:       title,
			JobURL:      jobURL,
			Team:        util.StrPtr(p.Department),
			LocationRaw: util.StrPtr(loc),
			PostedAt:    p.PostedAt,
			Remote:      util.InferRemote(loc, title, p.Description),
		}
		if p.Description != "" {
			nj.FullDescription = util.StrPtr(p.Description)
			nj.DescriptionSnippet = util.StrPtr(util.Snippet(p.Description, 500))
		}

		out = append(out, nj)
	}

	return out
}
