package collector

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"TickerVault/internal/model"
)

// StooqFetcher implements Fetcher using the Stooq daily-quotes CSV
// endpoint. Stooq serves bars only — it has no metadata endpoint, so
// FetchMetadata reports ErrMetadataUnsupported and callers fall back to
// the all-N/A summary row.
type StooqFetcher struct {
	BaseURL string
	Suffix  string // market suffix appended to symbols, e.g. ".us"
	Client  *http.Client
}

// NewStooqFetcher creates a new fetcher with optional proxy support.
func NewStooqFetcher(baseURL, suffix, proxyURL string) *StooqFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = "https://stooq.com"
	}
	return &StooqFetcher{
		BaseURL: baseURL,
		Suffix:  suffix,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *StooqFetcher) Name() string { return "stooq" }

// FetchDailyBars requests the daily CSV for a symbol from start
// (inclusive) through today.
func (f *StooqFetcher) FetchDailyBars(symbol string, start time.Time) ([]model.Bar, error) {
	sym := strings.ToLower(symbol) + f.Suffix
	endpoint := fmt.Sprintf("%s/q/d/l/?s=%s&d1=%s&d2=%s&i=d",
		f.BaseURL, url.QueryEscape(sym),
		model.Day(start).Format("20060102"), time.Now().UTC().Format("20060102"))

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stooq fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("stooq: status %d, body: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("stooq read body: %w", err)
	}
	// An unknown symbol comes back as a plain-text notice, not CSV.
	if strings.HasPrefix(strings.TrimSpace(string(body)), "No data") {
		return nil, fmt.Errorf("stooq: %s: %w", symbol, ErrUnknownTicker)
	}

	return parseStooqCSV(body)
}

// FetchMetadata is unsupported; Stooq has no company-info endpoint.
func (f *StooqFetcher) FetchMetadata(symbol string) (*model.Metadata, error) {
	return nil, fmt.Errorf("stooq: %s: %w", symbol, ErrMetadataUnsupported)
}

func parseStooqCSV(body []byte) ([]model.Bar, error) {
	r := csv.NewReader(strings.NewReader(string(body)))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("stooq parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, nil // header only: no new data
	}

	bars := make([]model.Bar, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 6 {
			continue
		}
		date, err := time.Parse(model.DateOnly, rec[0])
		if err != nil {
			return nil, fmt.Errorf("stooq bad date %q", rec[0])
		}
		vals := make([]float64, 5)
		for i := 0; i < 5; i++ {
			v, err := strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("stooq bad number %q", rec[i+1])
			}
			vals[i] = v
		}
		bars = append(bars, model.Bar{
			Date:     model.Day(date),
			Open:     vals[0],
			High:     vals[1],
			Low:      vals[2],
			Close:    vals[3],
			AdjClose: vals[3],
			Volume:   vals[4],
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}
