// Package series implements the merge and trailing-window statistics for
// cached daily bar series.
package series

import (
	"sort"
	"time"

	"TickerVault/internal/model"
)

// Merge combines an existing series with freshly fetched bars. Duplicate
// dates keep the last occurrence after concatenation, so fetched data
// overwrites cached rows for the same date — this is what lets a re-fetch
// of a not-yet-final trading day replace the stale cached row. The result
// is sorted ascending by date with unique dates.
func Merge(existing, fetched []model.Bar) []model.Bar {
	if len(fetched) == 0 {
		return existing
	}

	byDate := make(map[time.Time]model.Bar, len(existing)+len(fetched))
	for _, b := range existing {
		byDate[model.Day(b.Date)] = b
	}
	for _, b := range fetched {
		b.Date = model.Day(b.Date)
		byDate[b.Date] = b
	}

	merged := make([]model.Bar, 0, len(byDate))
	for _, b := range byDate {
		merged = append(merged, b)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Date.Before(merged[j].Date) })
	return merged
}

// TrimProvisional drops the final bar when it is dated today. Used while
// the market is open: an in-progress trading day's close is not final and
// must not be persisted.
func TrimProvisional(bars []model.Bar, now time.Time) []model.Bar {
	if len(bars) == 0 {
		return bars
	}
	if model.SameDay(bars[len(bars)-1].Date, now) {
		return bars[:len(bars)-1]
	}
	return bars
}
