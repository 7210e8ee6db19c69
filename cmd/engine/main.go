package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"

	"jobradar-engine/internal/config"
	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/events"
	"jobradar-engine/internal/fetch"
	"jobradar-engine/internal/httpapi"
	"jobradar-engine/internal/progress"
	"jobradar-engine/internal/scheduler"
	"jobradar-engine/internal/scrape"
	"jobradar-engine/internal/scrape/util"
	"jobradar-engine/internal/store"
)

func main() {
	// optional .env for local development; absence is fine
	_ = godotenv.Load()

	// Engine data dir: use env if provided, else local folder.
	dataDir := os.Getenv("JOBRADAR_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// Two engines on one data dir means two writers on one sqlite file.
	// Take an advisory lock and refuse to start if another holds it.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("data dir lock: %v", err)
	}
	if !locked {
		log.Fatalf("another engine instance is already running on %s", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		raw, err := config.Load(userCfgPath)
		if err != nil {
			return raw, err
		}
		normalized, vr := config.NormalizeAndValidate(raw)
		for _, warn := range vr.Warnings {
			log.Printf("[config] warning: %s", warn)
		}
		if !vr.OK() {
			log.Printf("[config] errors: %v", vr.Errors)
		}
		return normalized, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "jobradar.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seedCompanies(ctx, db, filepath.Join(dataDir, "companies.yml"))

	// Progress sessions: in-process map by default, redis when configured.
	var sessions progress.Store
	var memStore *progress.MemoryStore
	switch cfg.Progress.Backend {
	case "redis":
		rs, err := progress.NewRedisStore(cfg.Progress.RedisAddr, "",
			time.Duration(cfg.Progress.TTLMinutes)*time.Minute)
		if err != nil {
			log.Fatalf("progress backend: %v", err)
		}
		defer rs.Close()
		sessions = rs
		log.Printf("[progress] backend=redis addr=%s", cfg.Progress.RedisAddr)
	default:
		memStore = progress.NewMemoryStore()
		sessions = memStore
		log.Printf("[progress] backend=memory")
	}

	hub := events.NewHub()

	limiter := util.NewHostLimiter(cfg.Fetch.HostReqPerSec, cfg.Fetch.HostBurst)
	registry := scrape.NewRegistry(limiter, cfg.Fetch.UserAgent)

	runner := fetch.NewRunner(db.Pool, registry, sessions, hub, fetch.Options{
		BatchSize:      cfg.Fetch.BatchSize,
		BatchDelay:     time.Duration(cfg.Fetch.BatchDelayMS) * time.Millisecond,
		CompanyTimeout: time.Duration(cfg.Fetch.CompanyTimeoutSeconds) * time.Second,
		StaleAfter:     time.Duration(cfg.Fetch.StaleAfterDays) * 24 * time.Hour,
	})

	// Scheduled bulk fetch of stale companies.
	if cfg.Fetch.AutoFetchMinutes > 0 {
		go scheduler.Every(ctx, time.Duration(cfg.Fetch.AutoFetchMinutes)*time.Minute, "auto-fetch",
			func(ctx context.Context) error {
				_, err := runner.RunAll(ctx, false, "")
				return err
			})
	}

	// Reap finished progress sessions (redis expires on its own via TTL).
	if memStore != nil {
		go scheduler.Every(ctx, time.Duration(cfg.Progress.SweepMinutes)*time.Minute, "progress-gc",
			func(context.Context) error {
				if n := memStore.Sweep(time.Duration(cfg.Progress.TTLMinutes) * time.Minute); n > 0 {
					log.Printf("[progress-gc] reaped %d sessions", n)
				}
				return nil
			})
	}

	mux := httpapi.NewMux(httpapi.Deps{
		DB:          db.Pool,
		Hub:         hub,
		Runner:      runner,
		Sessions:    sessions,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
	})

	handler := httpapi.Chain(mux,
		httpapi.Recover,
		httpapi.RequestID,
		httpapi.AccessLog,
		httpapi.Cors,
	)

	port := cfg.App.Port
	if port <= 0 {
		port = 38472
	}
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("engine listening on http://%s (db=%s)", addr, dbPath)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Fatal(srv.Serve(ln))
}

func seedCompanies(ctx context.Context, db *store.DB, path string) {
	seeds, err := config.LoadSeedCompanies(path)
	if err != nil {
		log.Printf("[seed] read %s: %v", path, err)
		return
	}
	for _, sc := range seeds {
		if _, err := store.GetCompanyBySlug(ctx, db.Pool, sc.Slug); err == nil {
			continue // already present
		}
		co := domain.Company{
			Slug:        sc.Slug,
			Name:        sc.Name,
			CareersURL:  sc.CareersURL,
			PlatformKey: sc.PlatformKey,
		}
		if _, err := store.InsertCompany(ctx, db.Pool, co); err != nil {
			log.Printf("[seed] company %q: %v", sc.Slug, err)
			continue
		}
		log.Printf("[seed] added company %q (%s)", sc.Slug, co.PlatformKey)
	}
}
