package store

import (
	"database/sql"
)

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1: tables ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS companies (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  slug TEXT NOT NULL,
  name TEXT NOT NULL,
  careers_url TEXT NOT NULL,
  platform_key TEXT NOT NULL DEFAULT 'generic',
  last_checked_at TEXT,
  last_fetch_error TEXT
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS jobs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  company_id INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
  job_uid TEXT NOT NULL,
  title TEXT NOT NULL,
  team TEXT,
  location_raw TEXT,
  remote INTEGER,
  job_url TEXT NOT NULL,
  posted_at TEXT,
  description_snippet TEXT,
  full_description TEXT,
  source_platform TEXT NOT NULL,
  detected_at TEXT NOT NULL,
  last_seen_open_at TEXT NOT NULL,
  closed INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'New'
);
`); err != nil {
		return err
	}

	// ---- Schema v1: indexes ----

	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_companies_slug
ON companies(slug);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_jobs_company_uid
ON jobs(company_id, job_uid);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_jobs_company_open
ON jobs(company_id, closed);
`); err != nil {
		return err
	}

	// Mark schema v1
	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}
