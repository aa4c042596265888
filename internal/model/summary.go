package model

// Metadata holds externally sourced company information for a ticker.
// Absent fields stay at their zero value ("" / nil); numeric fields use
// pointers because zero is a legitimate value for EPS.
type Metadata struct {
	Company       string
	MarketCap     *float64
	Sector        string
	EPS           *float64
	AnalystRating string
	LogoURL       string
}

// SummaryRow is the per-ticker snapshot handed to presentation layers.
// Nil numeric fields mean "not available" — a valid percentage can be
// zero, so N/A must never be encoded as 0.
type SummaryRow struct {
	Ticker        string
	Company       string
	MarketCap     *float64
	Sector        string
	EPS           *float64
	AnalystRating string
	LogoURL       string
	CurrentPrice  *float64
	PercentChange *float64
	Decrease1Y    *float64
	Decrease90D   *float64
}

// NewUnavailableSummary returns the all-N/A row used when metadata or
// statistics cannot be derived for a ticker.
func NewUnavailableSummary(ticker string) SummaryRow {
	return SummaryRow{Ticker: ticker}
}

// Float returns a pointer to v, for building optional fields.
func Float(v float64) *float64 { return &v }
