package fetch

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/events"
	"jobradar-engine/internal/progress"
	"jobradar-engine/internal/scrape"
	"jobradar-engine/internal/store"
)

// Resolver is what the runner needs from the adapter registry. Kept as an
// interface so tests can swap in fakes per platform key.
type Resolver interface {
	Resolve(key string) (scrape.Adapter, error)
}

type Options struct {
	BatchSize      int           // companies fetched concurrently per batch
	BatchDelay     time.Duration // pause between batches
	CompanyTimeout time.Duration // hard deadline per company fetch
	StaleAfter     time.Duration // staleness window for non-forced bulk runs
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = 5
	}
	if o.BatchDelay <= 0 {
		o.BatchDelay = 500 * time.Millisecond
	}
	if o.CompanyTimeout <= 0 {
		o.CompanyTimeout = 60 * time.Second
	}
	if o.StaleAfter <= 0 {
		o.StaleAfter = 7 * 24 * time.Hour
	}
	return o
}

type Runner struct {
	DB       *sql.DB
	Registry Resolver
	Sessions progress.Store
	Hub      *events.Hub
	Opts     Options
}

func NewRunner(db *sql.DB, reg Resolver, sessions progress.Store, hub *events.Hub, opts Options) *Runner {
	return &Runner{DB: db, Registry: reg, Sessions: sessions, Hub: hub, Opts: opts.withDefaults()}
}

// CompanyResult is the outcome of one company's fetch cycle. Err carries the
// fetch failure; it never aborts a surrounding bulk run.
type CompanyResult struct {
	CompanyID int64  `json:"company_id"`
	Company   string `json:"company"`
	Fetched   int    `json:"fetched"`
	Added     int    `json:"added"`
	Updated   int    `json:"updated"`
	Closed    int    `json:"closed"`
	Err       error  `json:"-"`
}

// RunCompany executes the full fetch cycle for one company. The returned
// error is only for a missing company; adapter and scrape failures land in
// CompanyResult.Err and in the company's last_fetch_error.
func (r *Runner) RunCompany(ctx context.Context, companyID int64) (CompanyResult, error) {
	co, err := store.GetCompany(ctx, r.DB, companyID)
	if err == sql.ErrNoRows {
		return CompanyResult{}, fmt.Errorf("company %d not found", companyID)
	}
	if err != nil {
		return CompanyResult{}, err
	}
	return r.runCompany(ctx, co), nil
}

func (r *Runner) runCompany(ctx context.Context, co domain.Company) CompanyResult {
	res := CompanyResult{CompanyID: co.ID, Company: co.Name}

	res.Err = r.fetchAndApply(ctx, co, &res)

	var errText *string
	if res.Err != nil {
		s := res.Err.Error()
		errText = &s
		log.Printf("[fetch] company=%q platform=%s error=%v", co.Slug, co.PlatformKey, res.Err)
	} else {
		log.Printf("[fetch] company=%q platform=%s fetched=%d added=%d updated=%d closed=%d",
			co.Slug, co.PlatformKey, res.Fetched, res.Added, res.Updated, res.Closed)
	}

	// stamp last_checked_at on failure too, so staleness-based scheduling
	// does not retry a broken board every run
	if err := store.MarkCompanyChecked(ctx, r.DB, co.ID, errText); err != nil {
		log.Printf("[fetch] company=%q mark checked: %v", co.Slug, err)
	}

	return res
}

func (r *Runner) fetchAndApply(ctx context.Context, co domain.Company, res *CompanyResult) error {
	adapter, err := r.Registry.Resolve(co.PlatformKey)
	if err != nil {
		return err
	}

	fctx, cancel := context.WithTimeout(ctx, r.Opts.CompanyTimeout)
	defer cancel()

	jobs, err := adapter.FetchJobs(fctx, co)
	if err != nil {
		return err
	}
	res.Fetched = len(jobs)

	seen := make([]string, 0, len(jobs))
	for _, nj := range jobs {
		inserted, err := store.UpsertFetchedJob(ctx, r.DB, co.ID, co.PlatformKey, nj)
		if err != nil {
			return err
		}
		seen = append(seen, nj.JobUID)
		if inserted {
			res.Added++
			r.publish(events.TypeJobCreated, map[string]any{
				"company_id": co.ID,
				"company":    co.Name,
				"job_uid":    nj.JobUID,
				"title":      nj.Title,
			})
		} else {
			res.Updated++
		}
	}

	closed, err := store.CloseMissingJobs(ctx, r.DB, co.ID, seen)
	if err != nil {
		return err
	}
	res.Closed = int(closed)
	if closed > 0 {
		r.publish(events.TypeJobClosed, map[string]any{
			"company_id": co.ID,
			"company":    co.Name,
			"closed":     closed,
		})
	}

	return nil
}

func (r *Runner) publish(typ string, data any) {
	if r.Hub == nil {
		return
	}
	r.Hub.Publish(events.New("", typ, data))
}
