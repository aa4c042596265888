package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TickerVault/internal/calendar"
	"TickerVault/internal/collector"
	"TickerVault/internal/config"
	"TickerVault/internal/httpapi"
	"TickerVault/internal/notifier"
	"TickerVault/internal/recorder"
	"TickerVault/internal/scheduler"
	"TickerVault/internal/store"
	"TickerVault/internal/updater"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] TickerVault starting...")

	oneShot := flag.String("region", "", "run a single update cycle for this region and exit")
	flag.Parse()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "stooq":
		fetcher = collector.NewStooqFetcher(cfg.DataSource.StooqBaseURL, cfg.DataSource.StooqSuffix, cfg.Proxy)
	case "mock":
		fetcher = &collector.MockFetcher{}
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())
	cached := collector.NewMetaCache(fetcher, time.Duration(cfg.MetadataTTLMinutes)*time.Minute)

	// Init store
	st := store.NewCSVStore(cfg.DataDir, cfg.Cache.AdjCloseColumn, cfg.Cache.TickerColumn)

	// Build per-region trading sessions
	sessions := make(map[string]*calendar.Session, len(cfg.Regions))
	for _, r := range cfg.Regions {
		session, err := calendar.NewSession(r.MarketOpen, r.MarketClose, r.Timezone)
		if err != nil {
			log.Fatalf("[FATAL] region %s: %v", r.Name, err)
		}
		sessions[r.Name] = session
	}

	// Init updater
	u := updater.New(st, cached, sessions, cfg.BackfillYears)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init Telegram notifier (optional)
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, u, st, tn, rec)

	// One-shot mode: run a single region cycle and exit.
	if *oneShot != "" {
		if _, err := sched.RunRegion(*oneShot, flag.Args()); err != nil {
			log.Fatalf("[FATAL] update %s: %v", *oneShot, err)
		}
		return
	}

	if err := sched.Register(cfg.Schedule.UpdateCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start HTTP API
	api := httpapi.NewServer(sched)
	go func() {
		if err := api.ListenAndServe(cfg.HTTP.ListenAddr); err != nil {
			log.Fatalf("[FATAL] http api: %v", err)
		}
	}()

	// Start Telegram polling
	if tn.Enabled() {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing update cycle now")
		go sched.RunAllNow()
	}

	log.Println("[INFO] TickerVault is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] TickerVault stopped")
}
