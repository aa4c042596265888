package notifier

import (
	"strings"
	"testing"

	"TickerVault/internal/model"
	"TickerVault/internal/updater"
)

func TestFormatUpdateReport(t *testing.T) {
	res := &updater.Result{
		Region: "US",
		Log:    []string{"No new data for MSFT in US."},
		Summary: map[string]model.SummaryRow{
			"AAPL": {
				Ticker:        "AAPL",
				Company:       "Apple Inc.",
				MarketCap:     model.Float(2.9e12),
				CurrentPrice:  model.Float(251),
				PercentChange: model.Float(1.25),
				Decrease1Y:    model.Float(4.2),
			},
			"ZZZZ": {Ticker: "ZZZZ"}, // all-N/A row
		},
	}

	msg := FormatUpdateReport(res)

	for _, want := range []string{"US update", "Apple Inc.", "251.00", "+1.25%", "No new data for MSFT in US."} {
		if !strings.Contains(msg, want) {
			t.Errorf("report missing %q:\n%s", want, msg)
		}
	}
	// Unavailable values render as N/A, never as zero.
	if !strings.Contains(msg, "N/A") {
		t.Errorf("report should render N/A for the unavailable row:\n%s", msg)
	}
	// AAPL sorts before ZZZZ.
	if strings.Index(msg, "AAPL") > strings.Index(msg, "ZZZZ") {
		t.Errorf("summary rows should be sorted by ticker:\n%s", msg)
	}
}

func TestFormatStatus(t *testing.T) {
	msg := FormatStatus(map[string]int{"US": 12, "Canada": 3})
	if !strings.Contains(msg, "US: 12 tickers") || !strings.Contains(msg, "Canada: 3 tickers") {
		t.Errorf("unexpected status message:\n%s", msg)
	}
}
