package domain

import "time"

type Company struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	CareersURL  string `json:"careers_url"`
	PlatformKey string `json:"platform_key"` // selects the adapter

	LastCheckedAt  *time.Time `json:"last_checked_at"`
	LastFetchError *string    `json:"last_fetch_error"` // cleared on success
}
