// Package updater drives the per-region incremental cache update cycle:
// read cached series, fetch the delta, merge, gate, persist, summarize.
package updater

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"TickerVault/internal/calendar"
	"TickerVault/internal/collector"
	"TickerVault/internal/model"
	"TickerVault/internal/series"
	"TickerVault/internal/store"
)

// Outcome statuses recorded per ticker.
const (
	StatusUpdated       = "UPDATED"
	StatusSeeded        = "SEEDED"
	StatusNoData        = "NO_DATA"
	StatusFetchFailed   = "FETCH_FAILED"
	StatusPersistFailed = "PERSIST_FAILED"
	StatusDuplicate     = "DUPLICATE"
)

// Outcome describes what happened to one ticker during a cycle.
type Outcome struct {
	Ticker    string
	Status    string
	Detail    string
	RowsAdded int
	LastDate  time.Time
}

// Result is the data contract every presentation surface consumes: an
// ordered log and a per-ticker summary table, plus the per-ticker
// outcomes for the cycle recorder.
type Result struct {
	Region   string
	Log      []string
	Summary  map[string]model.SummaryRow
	Outcomes []Outcome
}

// Updater owns the update cycle for all configured regions. A mutex
// enforces a single writer per process; the source had no such guard, and
// cross-process races against the same data directory remain possible.
type Updater struct {
	mu sync.Mutex

	store    *store.CSVStore
	fetcher  collector.Fetcher
	sessions map[string]*calendar.Session // region → trading session
	backfill time.Duration

	now func() time.Time
}

// New creates an Updater. backfillYears controls how far back brand-new
// tickers are seeded.
func New(s *store.CSVStore, f collector.Fetcher, sessions map[string]*calendar.Session, backfillYears int) *Updater {
	if backfillYears <= 0 {
		backfillYears = 5
	}
	return &Updater{
		store:    s,
		fetcher:  f,
		sessions: sessions,
		backfill: time.Duration(backfillYears) * 365 * 24 * time.Hour,
		now:      time.Now,
	}
}

// Regions returns the configured region names.
func (u *Updater) Regions() []string {
	names := make([]string, 0, len(u.sessions))
	for name := range u.sessions {
		names = append(names, name)
	}
	return names
}

// UpdateRegion runs one update cycle for a region: every cached ticker is
// refreshed incrementally, and any newTickers not yet cached are seeded
// with a multi-year backfill. Tickers are processed sequentially, one
// attempt each; individual fetch failures skip the ticker and the cycle
// continues. A malformed cache file aborts the cycle — silent loss of
// cached history is worse than stopping.
func (u *Updater) UpdateRegion(region string, newTickers []string) (*Result, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	session, ok := u.sessions[region]
	if !ok {
		return nil, fmt.Errorf("unknown region %q", region)
	}

	now := u.now()
	marketOpen := session.IsOpen(now)

	res := &Result{
		Region:  region,
		Summary: make(map[string]model.SummaryRow),
	}

	cached, err := u.store.ListTickers(region)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] updating %s: %d cached tickers, %d new, market open=%v",
		region, len(cached), len(newTickers), marketOpen)

	for _, ticker := range cached {
		existing, err := u.store.ReadSeries(region, ticker)
		if err != nil {
			return nil, err
		}
		// Re-fetch from the last cached date inclusive: the merge's
		// new-wins rule overwrites the boundary row, healing a stale
		// provisional close.
		start := now.Add(-u.backfill)
		if len(existing) > 0 {
			start = existing[len(existing)-1].Date
		}
		u.processTicker(res, region, ticker, existing, start, marketOpen, now, false)
	}

	for _, raw := range newTickers {
		ticker := strings.ToUpper(strings.TrimSpace(raw))
		if ticker == "" {
			continue
		}
		if u.seen(res, cached, ticker) {
			res.logf("Ticker %s is already cached in %s, skipping.", ticker, region)
			res.record(Outcome{Ticker: ticker, Status: StatusDuplicate})
			continue
		}
		u.processTicker(res, region, ticker, nil, now.Add(-u.backfill), marketOpen, now, true)
	}

	if len(res.Summary) == 0 {
		// The source crashed concatenating zero frames; here an empty
		// region is an explicit, non-fatal outcome.
		res.logf("No tickers to summarize in %s.", region)
	}
	return res, nil
}

// processTicker fetches, merges, persists, and summarizes one ticker.
func (u *Updater) processTicker(res *Result, region, ticker string, existing []model.Bar, start time.Time, marketOpen bool, now time.Time, seeding bool) {
	fetched, err := u.fetcher.FetchDailyBars(ticker, start)
	if err != nil {
		if errors.Is(err, collector.ErrUnknownTicker) {
			res.logf("Unknown ticker %s in %s: %v", ticker, region, err)
		} else {
			res.logf("Fetch failed for %s in %s: %v", ticker, region, err)
		}
		res.record(Outcome{Ticker: ticker, Status: StatusFetchFailed, Detail: err.Error()})
		return
	}
	if len(fetched) == 0 {
		if seeding {
			res.logf("No data for new ticker %s in %s.", ticker, region)
		} else {
			res.logf("No new data for %s in %s.", ticker, region)
		}
		res.record(Outcome{Ticker: ticker, Status: StatusNoData})
		return
	}

	merged := series.Merge(existing, fetched)

	// While the market is open today's bar is provisional and withheld
	// from the persisted cache; the summary below still uses the full
	// merged series so it reflects the freshest known price.
	persisted := merged
	if marketOpen {
		persisted = series.TrimProvisional(merged, now)
	}

	status := StatusUpdated
	if seeding {
		status = StatusSeeded
	}
	outcome := Outcome{
		Ticker:    ticker,
		Status:    status,
		RowsAdded: len(persisted) - len(existing),
	}
	if len(persisted) > 0 {
		outcome.LastDate = persisted[len(persisted)-1].Date
	}

	if err := u.store.WriteSeries(region, ticker, persisted); err != nil {
		log.Printf("[ERROR] persist %s/%s: %v", region, ticker, err)
		res.logf("Persist failed for %s in %s: %v", ticker, region, err)
		outcome.Status = StatusPersistFailed
		outcome.Detail = err.Error()
	}
	res.record(outcome)

	res.Summary[ticker] = u.buildSummary(ticker, merged, now)
}

// buildSummary derives the summary row for a ticker over the full merged
// series. Any metadata failure degrades to the all-N/A row wholesale, but
// the underlying cause is logged rather than swallowed.
func (u *Updater) buildSummary(ticker string, bars []model.Bar, now time.Time) model.SummaryRow {
	meta, err := u.fetcher.FetchMetadata(ticker)
	if err != nil {
		switch {
		case errors.Is(err, collector.ErrMetadataUnsupported):
			log.Printf("[INFO] metadata unavailable for %s: %v", ticker, err)
		case errors.Is(err, collector.ErrUnknownTicker):
			log.Printf("[WARN] metadata: unknown ticker %s: %v", ticker, err)
		default:
			log.Printf("[WARN] metadata fetch for %s: %v", ticker, err)
		}
		return model.NewUnavailableSummary(ticker)
	}

	stats := series.Summarize(bars, now)
	return model.SummaryRow{
		Ticker:        ticker,
		Company:       meta.Company,
		MarketCap:     meta.MarketCap,
		Sector:        meta.Sector,
		EPS:           meta.EPS,
		AnalystRating: meta.AnalystRating,
		LogoURL:       meta.LogoURL,
		CurrentPrice:  stats.CurrentPrice,
		PercentChange: stats.PercentChange,
		Decrease1Y:    stats.Decrease1Y,
		Decrease90D:   stats.Decrease90D,
	}
}

// seen reports whether ticker is already cached or already handled in
// this cycle (e.g. listed twice in the new-ticker input).
func (u *Updater) seen(res *Result, cached []string, ticker string) bool {
	for _, c := range cached {
		if c == ticker {
			return true
		}
	}
	for _, o := range res.Outcomes {
		if o.Ticker == ticker {
			return true
		}
	}
	return false
}

func (r *Result) logf(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	log.Printf("[INFO] %s", line)
	r.Log = append(r.Log, line)
}

func (r *Result) record(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}
