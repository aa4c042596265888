package model

import "time"

// DateOnly is the layout used for bar dates in cache files and logs.
const DateOnly = "2006-01-02"

// Bar represents one trading day's OHLCV record for a ticker.
type Bar struct {
	Date     time.Time // calendar date, normalized to midnight UTC
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   float64
}

// Day normalizes t to a bare calendar date (midnight UTC). All bar dates
// pass through here so that equality and comparison are timezone-free.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}
