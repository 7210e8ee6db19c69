package httpapi

import (
	"database/sql"
	"sync/atomic"

	"jobradar-engine/internal/config"
	"jobradar-engine/internal/events"
	"jobradar-engine/internal/fetch"
	"jobradar-engine/internal/progress"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	Runner   *fetch.Runner
	Sessions progress.Store

	// Atomic store for the live config
	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
}
