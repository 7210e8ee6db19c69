package events

import (
	"encoding/json"
	"time"
)

// Event types the engine publishes over SSE.
const (
	TypeJobCreated    = "job_created"
	TypeJobClosed     = "job_closed"
	TypeFetchStarted  = "fetch_started"
	TypeFetchFinished = "fetch_finished"
)

// Event is the envelope pushed to SSE subscribers.
type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// New builds a versioned event, marshaling data into the payload. Events are
// advisory, so a payload that fails to marshal is dropped rather than
// surfaced as an error.
func New(reqID, typ string, data any) Event {
	e := Event{Type: typ, Version: 1, At: time.Now().UTC(), RequestID: reqID}
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			e.Data = b
		}
	}
	return e
}

// JSON renders the event for the wire.
func (e Event) JSON() []byte {
	b, _ := json.Marshal(e)
	return b
}
