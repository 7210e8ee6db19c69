package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate fills in defaults for zero-valued knobs and reports
// anything a user could have gotten wrong in the yaml.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	if out.Fetch.BatchSize <= 0 {
		out.Fetch.BatchSize = 5
	}
	if out.Fetch.BatchDelayMS <= 0 {
		out.Fetch.BatchDelayMS = 500
	}
	if out.Fetch.CompanyTimeoutSeconds <= 0 {
		out.Fetch.CompanyTimeoutSeconds = 60
	}
	if out.Fetch.StaleAfterDays <= 0 {
		out.Fetch.StaleAfterDays = 7
	}
	if out.Fetch.HostReqPerSec <= 0 {
		out.Fetch.HostReqPerSec = 1
	}
	if out.Fetch.HostBurst <= 0 {
		out.Fetch.HostBurst = 2
	}
	if strings.TrimSpace(out.Fetch.UserAgent) == "" {
		out.Fetch.UserAgent = "jobradar-engine/1.0"
	}

	out.Progress.Backend = strings.ToLower(strings.TrimSpace(out.Progress.Backend))
	if out.Progress.Backend == "" {
		out.Progress.Backend = "memory"
	}
	if out.Progress.TTLMinutes <= 0 {
		out.Progress.TTLMinutes = 30
	}
	if out.Progress.SweepMinutes <= 0 {
		out.Progress.SweepMinutes = 10
	}

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Fetch.BatchSize > 20 {
		res.addWarn("fetch.batch_size is very high (%d) and may trip vendor rate limits.", out.Fetch.BatchSize)
	}
	if out.Fetch.BatchDelayMS < 100 {
		res.addWarn("fetch.batch_delay_ms is very low (%d); boards on shared hosts may throttle you.", out.Fetch.BatchDelayMS)
	}
	if out.Fetch.AutoFetchMinutes < 0 {
		res.addErr("fetch.auto_fetch_minutes must be >= 0 (0 disables the schedule)")
	}
	if out.Fetch.AutoFetchMinutes > 0 && out.Fetch.AutoFetchMinutes < 10 {
		res.addWarn("fetch.auto_fetch_minutes is very low (%d); consider 60 or more.", out.Fetch.AutoFetchMinutes)
	}

	switch out.Progress.Backend {
	case "memory":
	case "redis":
		if strings.TrimSpace(out.Progress.RedisAddr) == "" {
			res.addErr("progress.redis_addr is required when progress.backend=redis")
		}
	default:
		res.addErr("progress.backend must be \"memory\" or \"redis\", got %q", out.Progress.Backend)
	}

	return out, res
}
