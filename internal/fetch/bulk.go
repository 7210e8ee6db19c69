package fetch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/events"
	"jobradar-engine/internal/progress"
	"jobradar-engine/internal/store"
)

// Summary is the durable outcome of a bulk run, independent of the
// ephemeral progress session.
type Summary struct {
	SessionID string   `json:"session_id"`
	Total     int      `json:"total"`
	Success   int      `json:"success"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// RunAll fetches every stale company (or every company with forceAll) in
// concurrent batches, reporting live state through the progress store under
// sessionID. A fresh uuid is minted when sessionID is empty.
func (r *Runner) RunAll(ctx context.Context, forceAll bool, sessionID string) (Summary, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	staleBefore := time.Now().UTC().Add(-r.Opts.StaleAfter)
	targets, err := store.SelectFetchTargets(ctx, r.DB, forceAll, staleBefore)
	if err != nil {
		// a failed selection is a zero-total run, not an error; record the
		// aborted session so pollers see a terminal state instead of a
		// session that never existed
		log.Printf("[fetch] select targets: %v", err)
		if tr, terr := progress.NewTracker(r.Sessions, sessionID, 0); terr == nil {
			tr.Finish(fmt.Sprintf("aborted: %v", err))
		}
		return Summary{SessionID: sessionID}, nil
	}

	tracker, err := progress.NewTracker(r.Sessions, sessionID, len(targets))
	if err != nil {
		return Summary{SessionID: sessionID}, fmt.Errorf("create progress session: %w", err)
	}

	tracker.Logf("fetch run started: %d companies, batches of %d", len(targets), r.Opts.BatchSize)
	r.publish(events.TypeFetchStarted, map[string]any{
		"session_id": sessionID,
		"total":      len(targets),
	})

	sum := Summary{SessionID: sessionID, Total: len(targets)}

	for start := 0; start < len(targets); start += r.Opts.BatchSize {
		end := start + r.Opts.BatchSize
		if end > len(targets) {
			end = len(targets)
		}
		batch := targets[start:end]

		results := make([]CompanyResult, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		for i, co := range batch {
			i, co := i, co
			g.Go(func() error {
				tracker.SetCurrent(co.Name)
				results[i] = r.runCompany(gctx, co)
				tracker.CompanyDone(co.Name, results[i].Err)
				// company failures are isolated; never fail the group
				return nil
			})
		}
		_ = g.Wait()

		for i := range results {
			if results[i].Err != nil {
				sum.Failed++
				sum.Errors = append(sum.Errors, fmt.Sprintf("%s: %v", batch[i].Name, results[i].Err))
			} else {
				sum.Success++
			}
		}

		if end < len(targets) {
			select {
			case <-ctx.Done():
				tracker.Finish(fmt.Sprintf("canceled after %d/%d companies", sum.Success+sum.Failed, sum.Total))
				return sum, ctx.Err()
			case <-time.After(r.Opts.BatchDelay):
			}
		}
	}

	tracker.Finish(fmt.Sprintf("fetch run finished: %d ok, %d failed of %d", sum.Success, sum.Failed, sum.Total))
	r.publish(events.TypeFetchFinished, map[string]any{
		"session_id": sessionID,
		"total":      sum.Total,
		"success":    sum.Success,
		"failed":     sum.Failed,
	})

	return sum, nil
}

// Targets exposes the selection the next bulk run would visit, for the
// status endpoint.
func (r *Runner) Targets(ctx context.Context, forceAll bool) ([]domain.Company, error) {
	staleBefore := time.Now().UTC().Add(-r.Opts.StaleAfter)
	return store.SelectFetchTargets(ctx, r.DB, forceAll, staleBefore)
}
