package domain

import "time"

// NormalizedJob is the shape every platform adapter emits. Fields the
// vendor didn't provide stay nil, never "", so diffing and display can
// tell absence apart from empty content.
type NormalizedJob struct {
	JobUID             string     `json:"job_uid"` // stable per platform+company
	Title              string     `json:"title"`
	Team               *string    `json:"team"`
	LocationRaw        *string    `json:"location_raw"`
	Remote             *bool      `json:"remote"` // tri-state: nil = unknown
	JobURL             string     `json:"job_url"`
	PostedAt           *time.Time `json:"posted_at"`
	DescriptionSnippet *string    `json:"description_snippet"` // first 500 chars
	FullDescription    *string    `json:"full_description"`
}

// Job is the persisted record: a NormalizedJob plus lifecycle fields owned
// by the fetch orchestrator.
type Job struct {
	ID             int64  `json:"id"`
	CompanyID      int64  `json:"company_id"`
	SourcePlatform string `json:"source_platform"`

	NormalizedJob

	DetectedAt     time.Time `json:"detected_at"`       // set once, first sight
	LastSeenOpenAt time.Time `json:"last_seen_open_at"` // refreshed every fetch that finds it
	Closed         bool      `json:"closed"`            // never reverts automatically
	Status         string    `json:"status"`            // user workflow state; fetcher sets "New" once
}
