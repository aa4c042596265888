// Package httpapi exposes the update cycle's data contract — an ordered
// log and a per-ticker summary table — as a JSON API for presentation
// layers.
package httpapi

import (
	"TickerVault/internal/model"
	"TickerVault/internal/updater"
)

// SummaryRowJSON is the JSON representation of a per-ticker summary.
// Null numeric fields mean "not available".
type SummaryRowJSON struct {
	Ticker        string   `json:"ticker"`
	Company       string   `json:"company,omitempty"`
	MarketCap     *float64 `json:"marketCap"`
	Sector        string   `json:"sector,omitempty"`
	EPS           *float64 `json:"eps"`
	AnalystRating string   `json:"analystRating,omitempty"`
	LogoURL       string   `json:"logoUrl,omitempty"`
	CurrentPrice  *float64 `json:"currentPrice"`
	PercentChange *float64 `json:"percentChange"`
	Decrease1Y    *float64 `json:"decrease1y"`
	Decrease90D   *float64 `json:"decrease90d"`
}

// UpdateRequest is the POST /api/update body.
type UpdateRequest struct {
	Region     string   `json:"region"`
	NewTickers []string `json:"newTickers,omitempty"`
}

// UpdateResponse is the POST /api/update reply: the cycle log and the
// summary table keyed by ticker.
type UpdateResponse struct {
	Region  string                    `json:"region"`
	Log     []string                  `json:"log"`
	Summary map[string]SummaryRowJSON `json:"summary"`
}

// RegionsResponse is the GET /api/regions reply.
type RegionsResponse struct {
	Regions []string `json:"regions"`
}

func toResponse(res *updater.Result) UpdateResponse {
	out := UpdateResponse{
		Region:  res.Region,
		Log:     res.Log,
		Summary: make(map[string]SummaryRowJSON, len(res.Summary)),
	}
	if out.Log == nil {
		out.Log = []string{}
	}
	for ticker, row := range res.Summary {
		out.Summary[ticker] = toRowJSON(row)
	}
	return out
}

func toRowJSON(row model.SummaryRow) SummaryRowJSON {
	return SummaryRowJSON{
		Ticker:        row.Ticker,
		Company:       row.Company,
		MarketCap:     row.MarketCap,
		Sector:        row.Sector,
		EPS:           row.EPS,
		AnalystRating: row.AnalystRating,
		LogoURL:       row.LogoURL,
		CurrentPrice:  row.CurrentPrice,
		PercentChange: row.PercentChange,
		Decrease1Y:    row.Decrease1Y,
		Decrease90D:   row.Decrease90D,
	}
}
