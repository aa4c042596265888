package series

import (
	"time"

	"TickerVault/internal/model"
)

// Stats holds the trailing-window statistics for one ticker. Nil fields
// mean the value could not be derived (too few bars, empty window, or a
// zero divisor) — never a numeric zero.
type Stats struct {
	CurrentPrice  *float64
	PreviousClose *float64
	PercentChange *float64
	High1Y        *float64
	Decrease1Y    *float64
	High90D       *float64
	Decrease90D   *float64
}

// Summarize computes current price, percent change versus the previous
// close, and the 1-year / 90-day trailing-high drawdowns for a series
// sorted ascending by date. Divisions by zero or by an undefined
// reference yield nil, never a panic or an infinity.
func Summarize(bars []model.Bar, now time.Time) Stats {
	var s Stats
	if len(bars) == 0 {
		return s
	}

	current := bars[len(bars)-1].Close
	s.CurrentPrice = model.Float(current)

	if len(bars) > 1 {
		prev := bars[len(bars)-2].Close
		s.PreviousClose = model.Float(prev)
		if prev != 0 {
			s.PercentChange = model.Float((current - prev) / prev * 100)
		}
	}

	s.High1Y = windowHigh(bars, now.AddDate(0, 0, -365))
	s.Decrease1Y = drawdown(s.High1Y, current)
	s.High90D = windowHigh(bars, now.AddDate(0, 0, -90))
	s.Decrease90D = drawdown(s.High90D, current)
	return s
}

// windowHigh returns the maximum high among bars dated at or after cutoff,
// or nil if no bar falls in the window.
func windowHigh(bars []model.Bar, cutoff time.Time) *float64 {
	cutoff = model.Day(cutoff)
	var high *float64
	for i := len(bars) - 1; i >= 0; i-- {
		if bars[i].Date.Before(cutoff) {
			break
		}
		if high == nil || bars[i].High > *high {
			high = model.Float(bars[i].High)
		}
	}
	return high
}

// drawdown returns the percentage decline of current from high, or nil
// when the high is unavailable or zero.
func drawdown(high *float64, current float64) *float64 {
	if high == nil || *high == 0 {
		return nil
	}
	return model.Float((*high - current) / *high * 100)
}
