package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"jobradar-engine/internal/domain"
)

// Job rows carry the normalized fields plus lifecycle state. detected_at is
// set once at first sight, status belongs to the user and is never touched
// after insert, and closed never reverts automatically once set.

// UpsertFetchedJob writes a freshly fetched posting. Returns inserted=true
// when the job was new for this company. On update only the normalized
// fields and last_seen_open_at change.
func UpsertFetchedJob(ctx context.Context, db *sql.DB, companyID int64, platform string, nj domain.NormalizedJob) (inserted bool, err error) {
	now := time.Now().UTC().Format(time.RFC3339)

	var existingID int64
	err = db.QueryRowContext(ctx,
		`SELECT id FROM jobs WHERE company_id = ? AND job_uid = ? LIMIT 1;`,
		companyID, nj.JobUID,
	).Scan(&existingID)

	switch {
	case err == sql.ErrNoRows:
		_, err = db.ExecContext(ctx, `
INSERT INTO jobs (company_id, job_uid, title, team, location_raw, remote, job_url,
  posted_at, description_snippet, full_description, source_platform,
  detected_at, last_seen_open_at, closed, status)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,0,'New');`,
			companyID, nj.JobUID, nj.Title,
			nullStr(nj.Team), nullStr(nj.LocationRaw), nullBool(nj.Remote), nj.JobURL,
			nullTime(nj.PostedAt), nullStr(nj.DescriptionSnippet), nullStr(nj.FullDescription),
			platform, now, now)
		if err != nil {
			return false, fmt.Errorf("insert job %q: %w", nj.JobUID, err)
		}
		return true, nil

	case err != nil:
		return false, fmt.Errorf("lookup job %q: %w", nj.JobUID, err)

	default:
		_, err = db.ExecContext(ctx, `
UPDATE jobs SET title = ?, team = ?, location_raw = ?, remote = ?, job_url = ?,
  posted_at = ?, description_snippet = ?, full_description = ?,
  last_seen_open_at = ?
WHERE id = ?;`,
			nj.Title, nullStr(nj.Team), nullStr(nj.LocationRaw), nullBool(nj.Remote), nj.JobURL,
			nullTime(nj.PostedAt), nullStr(nj.DescriptionSnippet), nullStr(nj.FullDescription),
			now, existingID)
		if err != nil {
			return false, fmt.Errorf("update job %q: %w", nj.JobUID, err)
		}
		return false, nil
	}
}

// CloseMissingJobs marks every open job of the company whose uid is absent
// from seenUIDs as closed. One idempotent UPDATE: re-running it on the same
// snapshot affects zero rows.
func CloseMissingJobs(ctx context.Context, db *sql.DB, companyID int64, seenUIDs []string) (closed int64, err error) {
	query := `UPDATE jobs SET closed = 1 WHERE company_id = ? AND closed = 0`
	args := []any{companyID}

	if len(seenUIDs) > 0 {
		placeholders := strings.Repeat("?,", len(seenUIDs))
		query += fmt.Sprintf(" AND job_uid NOT IN (%s)", placeholders[:len(placeholders)-1])
		for _, uid := range seenUIDs {
			args = append(args, uid)
		}
	}
	query += ";"

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("close missing jobs for company %d: %w", companyID, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

type ListJobsOpts struct {
	CompanyID int64 // 0 = all companies
	OpenOnly  bool
	Limit     int
}

func ListJobs(ctx context.Context, db *sql.DB, opts ListJobsOpts) ([]domain.Job, error) {
	if opts.Limit <= 0 || opts.Limit > 2000 {
		opts.Limit = 500
	}

	var where []string
	var args []any
	if opts.CompanyID > 0 {
		where = append(where, "company_id = ?")
		args = append(args, opts.CompanyID)
	}
	if opts.OpenOnly {
		where = append(where, "closed = 0")
	}
	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, opts.Limit)

	query := fmt.Sprintf(`
SELECT id, company_id, job_uid, title, team, location_raw, remote, job_url,
  posted_at, description_snippet, full_description, source_platform,
  detected_at, last_seen_open_at, closed, status
FROM jobs
%s
ORDER BY last_seen_open_at DESC, id DESC
LIMIT ?;`, clause)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// OpenJobUIDs returns the uids of the company's still-open jobs.
func OpenJobUIDs(ctx context.Context, db *sql.DB, companyID int64) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT job_uid FROM jobs WHERE company_id = ? AND closed = 0;`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		out = append(out, uid)
	}
	return out, rows.Err()
}

// SetJobStatus updates the user workflow state of one job.
func SetJobStatus(ctx context.Context, db *sql.DB, jobID int64, status string) error {
	res, err := db.ExecContext(ctx, `UPDATE jobs SET status = ? WHERE id = ?;`, status, jobID)
	if err != nil {
		return fmt.Errorf("set job %d status: %w", jobID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanJob(row rowScanner) (domain.Job, error) {
	var j domain.Job
	var team, loc, snippet, full, postedAt sql.NullString
	var remote sql.NullInt64
	var detectedAt, lastSeen string
	var closedInt int

	if err := row.Scan(&j.ID, &j.CompanyID, &j.JobUID, &j.Title, &team, &loc, &remote, &j.JobURL,
		&postedAt, &snippet, &full, &j.SourcePlatform,
		&detectedAt, &lastSeen, &closedInt, &j.Status); err != nil {
		return domain.Job{}, fmt.Errorf("scan job: %w", err)
	}

	if team.Valid {
		j.Team = &team.String
	}
	if loc.Valid {
		j.LocationRaw = &loc.String
	}
	if snippet.Valid {
		j.DescriptionSnippet = &snippet.String
	}
	if full.Valid {
		j.FullDescription = &full.String
	}
	if remote.Valid {
		b := remote.Int64 != 0
		j.Remote = &b
	}
	if postedAt.Valid {
		if t, err := time.Parse(time.RFC3339, postedAt.String); err == nil {
			j.PostedAt = &t
		}
	}
	j.DetectedAt, _ = time.Parse(time.RFC3339, detectedAt)
	j.LastSeenOpenAt, _ = time.Parse(time.RFC3339, lastSeen)
	j.Closed = closedInt != 0
	return j, nil
}

func nullStr(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullBool(p *bool) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	var v int64
	if *p {
		v = 1
	}
	return sql.NullInt64{Int64: v, Valid: true}
}

func nullTime(p *time.Time) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: p.UTC().Format(time.RFC3339), Valid: true}
}
