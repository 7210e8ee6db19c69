package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"jobradar-engine/internal/domain"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := Migrate(db.Pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db.Pool
}

func insertTestCompany(t *testing.T, db *sql.DB, slug string) int64 {
	t.Helper()
	id, err := InsertCompany(context.Background(), db, domain.Company{
		Slug:        slug,
		Name:        slug,
		CareersURL:  "https://jobs.lever.co/" + slug,
		PlatformKey: "lever",
	})
	if err != nil {
		t.Fatalf("insert company: %v", err)
	}
	return id
}

func nj(uid, title string) domain.NormalizedJob {
	return domain.NormalizedJob{JobUID: uid, Title: title, JobURL: "https://jobs.lever.co/x/" + uid}
}

func TestUpsertInsertThenUpdate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	coID := insertTestCompany(t, db, "acme")

	inserted, err := UpsertFetchedJob(ctx, db, coID, "lever", nj("lever_1", "Engineer I"))
	if err != nil {
		t.Fatal(err)
	}
	if !inserted {
		t.Fatal("first upsert should insert")
	}

	jobs, err := ListJobs(ctx, db, ListJobsOpts{CompanyID: coID})
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 || jobs[0].Status != "New" {
		t.Fatalf("jobs = %+v", jobs)
	}
	firstDetected := jobs[0].DetectedAt

	// user moves the job through their workflow
	if err := SetJobStatus(ctx, db, jobs[0].ID, "Applied"); err != nil {
		t.Fatal(err)
	}

	// refetch with an edited title
	inserted, err = UpsertFetchedJob(ctx, db, coID, "lever", nj("lever_1", "Engineer II"))
	if err != nil {
		t.Fatal(err)
	}
	if inserted {
		t.Fatal("second upsert should update, not insert")
	}

	jobs, _ = ListJobs(ctx, db, ListJobsOpts{CompanyID: coID})
	if len(jobs) != 1 {
		t.Fatalf("upsert duplicated the row: %d", len(jobs))
	}
	j := jobs[0]
	if j.Title != "Engineer II" {
		t.Errorf("title not updated: %q", j.Title)
	}
	if j.Status != "Applied" {
		t.Errorf("status clobbered by fetch: %q", j.Status)
	}
	if !j.DetectedAt.Equal(firstDetected) {
		t.Errorf("detected_at changed on update: %v -> %v", firstDetected, j.DetectedAt)
	}
	if j.Closed {
		t.Error("update must not close the job")
	}
}

func TestCloseMissingJobsIdempotent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	coID := insertTestCompany(t, db, "acme")

	for _, uid := range []string{"lever_1", "lever_2", "lever_3"} {
		if _, err := UpsertFetchedJob(ctx, db, coID, "lever", nj(uid, "Role "+uid)); err != nil {
			t.Fatal(err)
		}
	}

	// latest fetch only saw lever_2
	closed, err := CloseMissingJobs(ctx, db, coID, []string{"lever_2"})
	if err != nil {
		t.Fatal(err)
	}
	if closed != 2 {
		t.Fatalf("closed = %d, want 2", closed)
	}

	// re-running the same diff is a no-op
	closed, err = CloseMissingJobs(ctx, db, coID, []string{"lever_2"})
	if err != nil {
		t.Fatal(err)
	}
	if closed != 0 {
		t.Fatalf("second run closed %d rows, want 0", closed)
	}

	open, err := OpenJobUIDs(ctx, db, coID)
	if err != nil {
		t.Fatal(err)
	}
	if len(open) != 1 || open[0] != "lever_2" {
		t.Fatalf("open = %v", open)
	}
}

func TestCloseMissingJobsEmptyFetchClosesAll(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	coID := insertTestCompany(t, db, "acme")

	if _, err := UpsertFetchedJob(ctx, db, coID, "lever", nj("lever_1", "Engineer")); err != nil {
		t.Fatal(err)
	}

	closed, err := CloseMissingJobs(ctx, db, coID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if closed != 1 {
		t.Fatalf("closed = %d, want 1", closed)
	}
}

func TestClosedJobDoesNotReopen(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	coID := insertTestCompany(t, db, "acme")

	if _, err := UpsertFetchedJob(ctx, db, coID, "lever", nj("lever_1", "Engineer")); err != nil {
		t.Fatal(err)
	}
	if _, err := CloseMissingJobs(ctx, db, coID, nil); err != nil {
		t.Fatal(err)
	}

	// the posting reappears in a later fetch
	if _, err := UpsertFetchedJob(ctx, db, coID, "lever", nj("lever_1", "Engineer")); err != nil {
		t.Fatal(err)
	}

	jobs, _ := ListJobs(ctx, db, ListJobsOpts{CompanyID: coID})
	if len(jobs) != 1 || !jobs[0].Closed {
		t.Fatalf("closed flag reverted automatically: %+v", jobs)
	}
}

func TestSelectFetchTargetsStaleness(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	fresh := insertTestCompany(t, db, "fresh")
	stale := insertTestCompany(t, db, "stale")
	never := insertTestCompany(t, db, "never")

	if err := MarkCompanyChecked(ctx, db, fresh, nil); err != nil {
		t.Fatal(err)
	}
	// backdate the stale company past the window
	old := time.Now().UTC().Add(-10 * 24 * time.Hour).Format(time.RFC3339)
	if _, err := db.Exec(`UPDATE companies SET last_checked_at = ? WHERE id = ?;`, old, stale); err != nil {
		t.Fatal(err)
	}

	staleBefore := time.Now().UTC().Add(-7 * 24 * time.Hour)
	targets, err := SelectFetchTargets(ctx, db, false, staleBefore)
	if err != nil {
		t.Fatal(err)
	}
	ids := map[int64]bool{}
	for _, c := range targets {
		ids[c.ID] = true
	}
	if ids[fresh] {
		t.Error("fresh company selected")
	}
	if !ids[stale] || !ids[never] {
		t.Errorf("stale/never-checked companies missing: %v", ids)
	}

	all, err := SelectFetchTargets(ctx, db, true, staleBefore)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("forceAll selected %d, want 3", len(all))
	}
}

func TestMarkCompanyCheckedErrorRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	id := insertTestCompany(t, db, "acme")

	msg := "lever status 404"
	if err := MarkCompanyChecked(ctx, db, id, &msg); err != nil {
		t.Fatal(err)
	}
	co, err := GetCompany(ctx, db, id)
	if err != nil {
		t.Fatal(err)
	}
	if co.LastFetchError == nil || *co.LastFetchError != msg {
		t.Fatalf("last_fetch_error = %v", co.LastFetchError)
	}
	if co.LastCheckedAt == nil {
		t.Fatal("last_checked_at not stamped on failure")
	}

	if err := MarkCompanyChecked(ctx, db, id, nil); err != nil {
		t.Fatal(err)
	}
	co, _ = GetCompany(ctx, db, id)
	if co.LastFetchError != nil {
		t.Fatalf("last_fetch_error not cleared: %v", *co.LastFetchError)
	}
}

func TestInsertCompanyDuplicateSlug(t *testing.T) {
	db := testDB(t)
	insertTestCompany(t, db, "acme")
	_, err := InsertCompany(context.Background(), db, domain.Company{
		Slug: "ACME", Name: "Acme", CareersURL: "https://jobs.lever.co/acme",
	})
	if err == nil {
		t.Fatal("want unique slug violation")
	}
}
