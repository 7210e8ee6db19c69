package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"jobradar-engine/internal/domain"
)

// Companies are stored with times as RFC3339 TEXT. last_checked_at and
// last_fetch_error stay NULL until the first fetch attempt.

func InsertCompany(ctx context.Context, db *sql.DB, co domain.Company) (int64, error) {
	slug := normalizeSlug(co.Slug)
	if slug == "" {
		return 0, fmt.Errorf("insert company: empty slug")
	}
	if strings.TrimSpace(co.CareersURL) == "" {
		return 0, fmt.Errorf("insert company %q: empty careers_url", slug)
	}
	platform := strings.TrimSpace(co.PlatformKey)
	if platform == "" {
		platform = "generic"
	}

	res, err := db.ExecContext(ctx, `
INSERT INTO companies(slug, name, careers_url, platform_key)
VALUES(?,?,?,?);`,
		slug, strings.TrimSpace(co.Name), strings.TrimSpace(co.CareersURL), platform)
	if err != nil {
		return 0, fmt.Errorf("insert company %q: %w", slug, err)
	}
	return res.LastInsertId()
}

func GetCompany(ctx context.Context, db *sql.DB, id int64) (domain.Company, error) {
	row := db.QueryRowContext(ctx, `
SELECT id, slug, name, careers_url, platform_key, last_checked_at, last_fetch_error
FROM companies WHERE id = ? LIMIT 1;`, id)
	return scanCompany(row)
}

func GetCompanyBySlug(ctx context.Context, db *sql.DB, slug string) (domain.Company, error) {
	row := db.QueryRowContext(ctx, `
SELECT id, slug, name, careers_url, platform_key, last_checked_at, last_fetch_error
FROM companies WHERE slug = ? LIMIT 1;`, normalizeSlug(slug))
	return scanCompany(row)
}

func ListCompanies(ctx context.Context, db *sql.DB) ([]domain.Company, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, slug, name, careers_url, platform_key, last_checked_at, last_fetch_error
FROM companies ORDER BY name COLLATE NOCASE ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Company
	for rows.Next() {
		co, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, co)
	}
	return out, rows.Err()
}

// SelectFetchTargets returns the companies a bulk run should visit. With
// forceAll it is every company; otherwise only those never checked or last
// checked before staleBefore.
func SelectFetchTargets(ctx context.Context, db *sql.DB, forceAll bool, staleBefore time.Time) ([]domain.Company, error) {
	query := `
SELECT id, slug, name, careers_url, platform_key, last_checked_at, last_fetch_error
FROM companies`
	var args []any
	if !forceAll {
		query += `
WHERE last_checked_at IS NULL OR last_checked_at < ?`
		args = append(args, staleBefore.UTC().Format(time.RFC3339))
	}
	query += `
ORDER BY id ASC;`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select fetch targets: %w", err)
	}
	defer rows.Close()

	var out []domain.Company
	for rows.Next() {
		co, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, co)
	}
	return out, rows.Err()
}

// MarkCompanyChecked stamps last_checked_at now and records the fetch error,
// or clears it when fetchErr is nil. The stamp is written on failure too so
// a broken board does not get hammered every bulk run.
func MarkCompanyChecked(ctx context.Context, db *sql.DB, id int64, fetchErr *string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	var errText sql.NullString
	if fetchErr != nil {
		errText = sql.NullString{String: *fetchErr, Valid: true}
	}
	_, err := db.ExecContext(ctx, `
UPDATE companies SET last_checked_at = ?, last_fetch_error = ? WHERE id = ?;`,
		now, errText, id)
	if err != nil {
		return fmt.Errorf("mark company %d checked: %w", id, err)
	}
	return nil
}

func DeleteCompany(ctx context.Context, db *sql.DB, id int64) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM jobs WHERE company_id = ?;`, id); err != nil {
		return fmt.Errorf("delete company %d jobs: %w", id, err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM companies WHERE id = ?;`, id); err != nil {
		return fmt.Errorf("delete company %d: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (domain.Company, error) {
	var co domain.Company
	var checkedAt, fetchErr sql.NullString
	if err := row.Scan(&co.ID, &co.Slug, &co.Name, &co.CareersURL, &co.PlatformKey, &checkedAt, &fetchErr); err != nil {
		if err == sql.ErrNoRows {
			return domain.Company{}, err
		}
		return domain.Company{}, fmt.Errorf("scan company: %w", err)
	}
	if checkedAt.Valid {
		if t, err := time.Parse(time.RFC3339, checkedAt.String); err == nil {
			co.LastCheckedAt = &t
		}
	}
	if fetchErr.Valid {
		s := fetchErr.String
		co.LastFetchError = &s
	}
	return co, nil
}

func normalizeSlug(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), "-")
	return strings.ToLower(s)
}
