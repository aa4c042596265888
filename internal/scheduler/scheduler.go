package scheduler

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"TickerVault/internal/notifier"
	"TickerVault/internal/recorder"
	"TickerVault/internal/store"
	"TickerVault/internal/updater"
)

// Scheduler runs cron-scheduled update cycles for every region, records
// each cycle, and reports results over the notifier.
type Scheduler struct {
	Cron     *cron.Cron
	Updater  *updater.Updater
	Store    *store.CSVStore
	Notifier *notifier.TelegramNotifier
	Recorder recorder.Recorder
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, u *updater.Updater, s *store.CSVStore, tn *notifier.TelegramNotifier, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Updater:  u,
		Store:    s,
		Notifier: tn,
		Recorder: rec,
		Ctx:      ctx,
	}
}

// Register schedules the periodic refresh of all regions.
func (s *Scheduler) Register(updateCron string) error {
	if _, err := s.Cron.AddFunc(updateCron, s.updateAllRegions); err != nil {
		return fmt.Errorf("register update task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunAllNow executes the update task immediately (manual trigger /
// RUN_ON_START).
func (s *Scheduler) RunAllNow() {
	s.updateAllRegions()
}

func (s *Scheduler) updateAllRegions() {
	regions := s.Updater.Regions()
	sort.Strings(regions)
	for _, region := range regions {
		s.runRegion(region, nil)
	}
}

// RunRegion runs one update cycle for a region, records it, and returns
// the result.
func (s *Scheduler) RunRegion(region string, newTickers []string) (*updater.Result, error) {
	return s.runRegion(region, newTickers)
}

// Regions returns the configured region names.
func (s *Scheduler) Regions() []string {
	return s.Updater.Regions()
}

func (s *Scheduler) runRegion(region string, newTickers []string) (*updater.Result, error) {
	log.Printf("[INFO] running update cycle for %s", region)
	started := time.Now()

	res, err := s.Updater.UpdateRegion(region, newTickers)
	if err != nil {
		log.Printf("[ERROR] update %s: %v", region, err)
		s.trySend(fmt.Sprintf("❌ Update failed for %s: %v", region, err))
		return nil, err
	}

	rec := &recorder.CycleRecord{
		ID:       uuid.NewString(),
		Region:   region,
		Started:  started,
		Duration: time.Since(started),
		Tickers:  len(res.Outcomes),
	}
	outcomes := make([]recorder.TickerOutcome, 0, len(res.Outcomes))
	for _, o := range res.Outcomes {
		rec.RowsAdded += o.RowsAdded
		outcomes = append(outcomes, recorder.TickerOutcome{
			CycleID:   rec.ID,
			Ticker:    o.Ticker,
			Status:    o.Status,
			Detail:    o.Detail,
			RowsAdded: o.RowsAdded,
			LastDate:  o.LastDate,
		})
	}
	if err := s.Recorder.RecordCycle(rec, outcomes); err != nil {
		log.Printf("[ERROR] record cycle %s: %v", rec.ID, err)
	}

	s.trySend(notifier.FormatUpdateReport(res))
	return res, nil
}

// HandleCommand processes an operator command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	switch fields[0] {
	case "/update":
		if len(fields) < 2 {
			return "Usage: /update <region> [TICKER,TICKER,...]"
		}
		var newTickers []string
		if len(fields) > 2 {
			newTickers = strings.Split(fields[2], ",")
		}
		if _, err := s.runRegion(fields[1], newTickers); err != nil {
			return fmt.Sprintf("Update failed: %v", err)
		}
		return "" // report already sent by runRegion
	case "/regions":
		regions := s.Updater.Regions()
		sort.Strings(regions)
		return "Regions: " + strings.Join(regions, ", ")
	case "/status":
		counts := make(map[string]int)
		for _, region := range s.Updater.Regions() {
			tickers, err := s.Store.ListTickers(region)
			if err != nil {
				log.Printf("[ERROR] list tickers for %s: %v", region, err)
				continue
			}
			counts[region] = len(tickers)
		}
		return notifier.FormatStatus(counts)
	default:
		return "Commands:\n• /update <region> [TICKER,...]\n• /regions\n• /status"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
