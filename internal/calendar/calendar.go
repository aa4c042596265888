// Package calendar provides the market-hours gate used to decide whether
// the most recent fetched bar is still provisional.
package calendar

import (
	"fmt"
	"time"
)

// Session describes a market's regular trading hours in its local
// timezone, e.g. 09:30-16:00 America/New_York.
//
// The gate only compares wall-clock time: it has no weekend or holiday
// awareness, so on a Saturday at 11:00 it still reports open. The effect
// is that a bar fetched on a non-trading day is persisted as-is, which is
// harmless because no provisional bar exists on such days.
type Session struct {
	OpenHour    int
	OpenMinute  int
	CloseHour   int
	CloseMinute int
	Location    *time.Location
}

// NewSession parses "HH:MM" open/close times and an IANA timezone name.
func NewSession(open, close, timezone string) (*Session, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	oh, om, err := parseClock(open)
	if err != nil {
		return nil, fmt.Errorf("parse open time: %w", err)
	}
	ch, cm, err := parseClock(close)
	if err != nil {
		return nil, fmt.Errorf("parse close time: %w", err)
	}
	return &Session{
		OpenHour:    oh,
		OpenMinute:  om,
		CloseHour:   ch,
		CloseMinute: cm,
		Location:    loc,
	}, nil
}

// IsOpen reports whether t falls within the regular trading session.
// Pure function of the clock.
func (s *Session) IsOpen(t time.Time) bool {
	local := t.In(s.Location)
	open := time.Date(local.Year(), local.Month(), local.Day(), s.OpenHour, s.OpenMinute, 0, 0, s.Location)
	close := time.Date(local.Year(), local.Month(), local.Day(), s.CloseHour, s.CloseMinute, 0, 0, s.Location)
	return !local.Before(open) && !local.After(close)
}

func parseClock(v string) (hour, minute int, err error) {
	if _, err := fmt.Sscanf(v, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("invalid clock time %q", v)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock time %q out of range", v)
	}
	return hour, minute, nil
}
