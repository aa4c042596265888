package collector

import (
	"errors"
	"time"

	"TickerVault/internal/model"
)

// Fetcher defines the interface to the external market-data source.
//
// FetchDailyBars returns the daily bars for a symbol from start
// (inclusive) through now; an empty result is not an error — callers
// treat it as "no new data". FetchMetadata returns company information;
// absent fields stay at their zero values.
type Fetcher interface {
	FetchDailyBars(symbol string, start time.Time) ([]model.Bar, error)
	FetchMetadata(symbol string) (*model.Metadata, error)
	Name() string
}

// Error kinds the updater distinguishes. The source API's own failure
// detail is wrapped, so the cause stays visible in logs.
var (
	// ErrUnknownTicker marks a symbol the data source does not know.
	ErrUnknownTicker = errors.New("unknown ticker")

	// ErrMetadataUnsupported marks a data source without a metadata
	// endpoint; callers fall back to the all-N/A summary row.
	ErrMetadataUnsupported = errors.New("metadata not supported by this source")
)
