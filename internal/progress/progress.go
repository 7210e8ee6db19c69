package progress

import "time"

const (
	maxLogLines = 100
	maxErrors   = 50
)

// Session is the live record of one bulk fetch, written by the tracker and
// read by polling clients. Ephemeral: a restart loses it.
type Session struct {
	SessionID string    `json:"session_id"`
	Total     int       `json:"total"`
	Completed int       `json:"completed"`
	Success   int       `json:"success"`
	Failed    int       `json:"failed"`
	Current   string    `json:"current"`
	Logs      []string  `json:"logs"`
	Errors    []string  `json:"errors"`
	Finished  bool      `json:"finished"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSession(id string, total int) Session {
	now := time.Now().UTC()
	return Session{
		SessionID: id,
		Total:     total,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// appendLog keeps the log as a bounded ring: oldest lines fall off once the
// cap is reached.
func (s *Session) appendLog(line string) {
	s.Logs = append(s.Logs, line)
	if len(s.Logs) > maxLogLines {
		s.Logs = s.Logs[len(s.Logs)-maxLogLines:]
	}
}

func (s *Session) appendError(msg string) {
	if len(s.Errors) >= maxErrors {
		return
	}
	s.Errors = append(s.Errors, msg)
}

// clone returns a deep copy so callers can hand sessions out without
// aliasing the tracker's slices.
func (s Session) clone() Session {
	out := s
	out.Logs = append([]string(nil), s.Logs...)
	out.Errors = append([]string(nil), s.Errors...)
	return out
}
