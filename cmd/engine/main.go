package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"internfinder-engine/internal/config"
	"internfinder-engine/internal/events"
	"internfinder-engine/internal/httpapi"
	"internfinder-engine/internal/notify"
	"internfinder-engine/internal/rank"
	"internfinder-engine/internal/reconcile"
	"internfinder-engine/internal/runlock"
	"internfinder-engine/internal/scheduler"
	"internfinder-engine/internal/scrape/util"
	"internfinder-engine/internal/secrets"
	"internfinder-engine/internal/store"
)

const defaultQuery = "software engineering intern"

func main() {
	// Local .env is optional; real deployments set env directly.
	_ = godotenv.Load()

	var (
		cfgFlag  = flag.String("config", "", "path to config.yml (default: <data dir>/config.yml)")
		onceFlag = flag.Bool("once", false, "run a single reconciliation and exit")
	)
	flag.Parse()

	// Engine data dir: use env if provided, else local folder.
	dataDir := os.Getenv("INTERNFINDER_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	userCfgPath := *cfgFlag
	if userCfgPath == "" {
		defaultCfgPath := filepath.Join("config", "config.yml")
		p, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
		if err != nil {
			log.Fatalf("config bootstrap failed: %v", err)
		}
		userCfgPath = p
	}

	// Load config and keep it reloadable.
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		raw, err := config.Load(userCfgPath)
		if err != nil {
			return config.Config{}, err
		}
		norm, res := config.NormalizeAndValidate(raw)
		for _, w := range res.Warnings {
			log.Printf("[config] warning: %s", w)
		}
		if !res.OK() {
			return config.Config{}, fmt.Errorf("config invalid: %v", res.Errors)
		}
		return norm, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	// One engine per data dir.
	lock, err := runlock.Acquire(filepath.Join(dataDir, "engine.lock"))
	if err != nil {
		log.Fatalf("run lock: %v", err)
	}
	defer func() { _ = lock.Release() }()

	st, closeStore, err := openStore(cfg, dataDir)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	query := os.Getenv("INTERNSHIP_SEARCH_QUERY")
	if query == "" {
		query = cfg.Search.Query
	}
	if query == "" {
		query = defaultQuery
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := util.NewHostLimiter(1, 2)
	producers := buildProducers(cfg, limiter)

	scorer, closeScorer := buildScorer(ctx, cfg)
	defer closeScorer()

	hub := events.NewHub()

	opts := []reconcile.Option{
		reconcile.WithNotifier(&notify.HubNotifier{Hub: hub}),
	}
	if cfg.Notify.Enabled {
		pw, err := secrets.Lookup(
			fmt.Sprintf("internfinder:smtp:%s", cfg.Notify.From), "EMAIL_PASSWORD")
		if err != nil {
			log.Printf("[engine] email notifications disabled: %v", err)
		} else {
			opts = append(opts, reconcile.WithNotifier(notify.NewEmail(notify.EmailConfig{
				Host:     cfg.Notify.SMTPHost,
				Port:     cfg.Notify.SMTPPort,
				From:     cfg.Notify.From,
				To:       cfg.Notify.To,
				Password: pw,
			}, scorer, query, cfg.Enrich.MaxLLMCalls)))
		}
	}

	rec := reconcile.New(st, producers, opts...)

	var runStatus atomic.Value
	runStatus.Store(httpapi.RunStatus{})

	// runOnce is the single entry point for both the scheduler and the HTTP
	// trigger. The semaphore keeps one run in flight per store and makes the
	// status value single-writer; rec.Run enforces the same rule underneath.
	runSem := make(chan struct{}, 1)
	runOnce := func(ctx context.Context) (int, error) {
		select {
		case runSem <- struct{}{}:
		default:
			return 0, reconcile.ErrRunInFlight
		}
		defer func() { <-runSem }()

		cur := runStatus.Load().(httpapi.RunStatus)
		cur.Running = true
		cur.LastRunAt = time.Now().Format(time.RFC3339)
		runStatus.Store(cur)

		fresh, all, err := rec.Run(ctx, query)

		now := time.Now().Format(time.RFC3339)
		next := runStatus.Load().(httpapi.RunStatus)
		next.Running = false
		next.LastRunAt = now
		if err != nil {
			next.LastError = err.Error()
			runStatus.Store(next)
			hub.Publish(events.MakeEvent(events.TypeRunFailed, map[string]any{"error": err.Error()}))
			return 0, err
		}
		next.LastError = ""
		next.LastOkAt = now
		next.LastAdded = len(fresh)
		runStatus.Store(next)

		hub.Publish(events.MakeEvent(events.TypeRunCompleted, map[string]any{
			"new":   len(fresh),
			"total": len(all),
		}))
		return len(fresh), nil
	}

	if *onceFlag {
		added, err := runOnce(ctx)
		if err != nil {
			log.Fatalf("[engine] run failed: %v", err)
		}
		log.Printf("[engine] run complete, %d new listings", added)
		return
	}

	interval := time.Duration(cfg.Polling.IntervalSeconds) * time.Second
	go scheduler.Every(ctx, interval, "reconcile", func(ctx context.Context) error {
		_, err := runOnce(ctx)
		if errors.Is(err, reconcile.ErrRunInFlight) {
			log.Printf("[reconcile] previous run still in flight, skipping tick")
			return nil
		}
		return err
	})

	mux := httpapi.NewMux(httpapi.Deps{
		Hub:          hub,
		CfgVal:       &cfgVal,
		RunStatus:    &runStatus,
		UserCfgPath:  userCfgPath,
		LoadCfg:      loadCfg,
		LoadListings: st.Load,
		RunOnce:      runOnce,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("[engine] listening on http://%s (data=%s)", addr, dataDir)

	srv := &http.Server{
		Handler:           httpapi.Chain(mux, httpapi.RequestID, httpapi.Recover, httpapi.AccessLog, httpapi.Cors),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// openStore picks the configured persistence backend. Both honor the same
// append-only, duplicate-rejecting contract.
func openStore(cfg config.Config, dataDir string) (reconcile.Store, func(), error) {
	path := cfg.Store.Path

	switch cfg.Store.Backend {
	case "workbook":
		if path == "" {
			path = filepath.Join(dataDir, "internships.csv")
		}
		return store.OpenWorkbook(path), func() {}, nil
	default:
		if path == "" {
			path = filepath.Join(dataDir, "internfinder.db")
		}
		s, err := store.OpenSQLite(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open store %s: %w", path, err)
		}
		return s, func() { _ = s.Close() }, nil
	}
}

// buildScorer returns the configured enrichment scorer. Gemini needs an API
// key; when it is missing we fall back to keyword matching rather than fail
// the whole engine.
func buildScorer(ctx context.Context, cfg config.Config) (rank.Scorer, func()) {
	if cfg.Enrich.Provider == "gemini" {
		key, err := secrets.GetGeminiAPIKey()
		if err == nil {
			g, gerr := rank.NewGemini(ctx, key, cfg.Enrich.Model)
			if gerr == nil {
				return g, func() { _ = g.Close() }
			}
			log.Printf("[engine] gemini scorer unavailable: %v", gerr)
		} else {
			log.Printf("[engine] gemini scorer unavailable: %v", err)
		}
	}
	return rank.KeywordScorer{}, func() {}
}
