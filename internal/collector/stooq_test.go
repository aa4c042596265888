package collector

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TickerVault/internal/model"
)

func TestParseStooqCSV(t *testing.T) {
	body := []byte("Date,Open,High,Low,Close,Volume\n" +
		"2024-06-14,101,106,100,105,120000\n" +
		"2024-06-13,99,102,98,100,100000\n")

	bars, err := parseStooqCSV(body)
	if err != nil {
		t.Fatalf("parseStooqCSV: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	// Rows come back sorted ascending regardless of input order.
	if bars[0].Date.Format(model.DateOnly) != "2024-06-13" {
		t.Errorf("expected oldest bar first, got %s", bars[0].Date.Format(model.DateOnly))
	}
	if bars[1].Close != 105 || bars[1].Volume != 120000 {
		t.Errorf("unexpected bar values: %+v", bars[1])
	}
	if bars[1].AdjClose != bars[1].Close {
		t.Errorf("adjclose should mirror close, got %g vs %g", bars[1].AdjClose, bars[1].Close)
	}
}

func TestParseStooqCSV_HeaderOnly(t *testing.T) {
	bars, err := parseStooqCSV([]byte("Date,Open,High,Low,Close,Volume\n"))
	if err != nil {
		t.Fatalf("header-only body is no data, not an error: %v", err)
	}
	if bars != nil {
		t.Errorf("expected nil bars, got %v", bars)
	}
}

func TestParseStooqCSV_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad date", "Date,Open,High,Low,Close,Volume\nnot-a-date,1,2,3,4,5\n"},
		{"bad number", "Date,Open,High,Low,Close,Volume\n2024-06-14,1,2,oops,4,5\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseStooqCSV([]byte(tc.body)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestStooqFetchDailyBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("s"); got != "aapl.us" {
			t.Errorf("expected symbol aapl.us, got %q", got)
		}
		fmt.Fprint(w, "Date,Open,High,Low,Close,Volume\n2024-06-14,101,106,100,105,120000\n")
	}))
	defer srv.Close()

	f := NewStooqFetcher(srv.URL, ".us", "")

	bars, err := f.FetchDailyBars("AAPL", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FetchDailyBars: %v", err)
	}
	if len(bars) != 1 || bars[0].Close != 105 {
		t.Fatalf("unexpected bars: %+v", bars)
	}
}

func TestStooqFetchDailyBars_UnknownTicker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "No data\n")
	}))
	defer srv.Close()

	f := NewStooqFetcher(srv.URL, ".us", "")

	_, err := f.FetchDailyBars("NOPE", time.Now().AddDate(0, 0, -5))
	if !errors.Is(err, ErrUnknownTicker) {
		t.Errorf("expected ErrUnknownTicker, got %v", err)
	}
}

func TestStooqFetchMetadataUnsupported(t *testing.T) {
	f := NewStooqFetcher("", ".us", "")
	if _, err := f.FetchMetadata("AAPL"); !errors.Is(err, ErrMetadataUnsupported) {
		t.Errorf("expected ErrMetadataUnsupported, got %v", err)
	}
}
