package recorder

import "time"

// CycleRecord summarizes one region update cycle.
type CycleRecord struct {
	ID        string // uuid, shared by the cycle's ticker outcomes
	Region    string
	Started   time.Time
	Duration  time.Duration
	Tickers   int // tickers processed
	RowsAdded int
}

// TickerOutcome records what happened to one ticker within a cycle.
type TickerOutcome struct {
	CycleID   string
	Ticker    string
	Status    string // UPDATED, SEEDED, NO_DATA, FETCH_FAILED, PERSIST_FAILED, DUPLICATE
	Detail    string
	RowsAdded int
	LastDate  time.Time
}

// Recorder persists update-cycle history for later inspection.
type Recorder interface {
	RecordCycle(rec *CycleRecord, outcomes []TickerOutcome) error
	Close() error
}
