// Package store persists per-ticker daily bar series as CSV files, one
// file per ticker, one directory per region.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"TickerVault/internal/model"
)

// CSVStore reads and writes ticker series under <dataDir>/<region>/<TICKER>.csv.
//
// The writer emits the canonical column set Date,Open,High,Low,Close
// plus AdjClose and Ticker when enabled; the reader is header-driven, so
// files written under any column configuration read back correctly.
//
// The store performs no locking. Two processes updating the same region
// concurrently can lose a read-modify-write cycle; within one process the
// updater serializes writers.
type CSVStore struct {
	dataDir         string
	includeAdjClose bool
	includeTicker   bool
}

// NewCSVStore creates a store rooted at dataDir with the configured
// column schema.
func NewCSVStore(dataDir string, includeAdjClose, includeTicker bool) *CSVStore {
	return &CSVStore{
		dataDir:         dataDir,
		includeAdjClose: includeAdjClose,
		includeTicker:   includeTicker,
	}
}

func (s *CSVStore) regionDir(region string) string {
	return filepath.Join(s.dataDir, region)
}

func (s *CSVStore) seriesPath(region, ticker string) string {
	return filepath.Join(s.regionDir(region), ticker+".csv")
}

// ListTickers enumerates the tickers cached for a region. A region with
// no directory yet has no tickers.
func (s *CSVStore) ListTickers(region string) ([]string, error) {
	entries, err := os.ReadDir(s.regionDir(region))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list region %s: %w", region, err)
	}
	var tickers []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		tickers = append(tickers, strings.TrimSuffix(e.Name(), ".csv"))
	}
	sort.Strings(tickers)
	return tickers, nil
}

// ReadSeries loads the cached series for a ticker, sorted ascending by
// date. An absent file is an empty series (first-time ticker); a
// malformed file is a hard error, since silently dropping cached history
// is worse than stopping.
func (s *CSVStore) ReadSeries(region, ticker string) ([]model.Bar, error) {
	f, err := os.Open(s.seriesPath(region, ticker))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open cache for %s/%s: %w", region, ticker, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse cache for %s/%s: %w", region, ticker, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols, err := headerIndex(records[0])
	if err != nil {
		return nil, fmt.Errorf("cache for %s/%s: %w", region, ticker, err)
	}

	bars := make([]model.Bar, 0, len(records)-1)
	for i, rec := range records[1:] {
		b, err := parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("cache for %s/%s row %d: %w", region, ticker, i+2, err)
		}
		bars = append(bars, b)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// WriteSeries rewrites the cached series for a ticker. The write goes to
// a temp file in the same directory and is renamed into place, so readers
// never observe a partially written cache.
func (s *CSVStore) WriteSeries(region, ticker string, bars []model.Bar) error {
	dir := s.regionDir(region)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create region dir %s: %w", region, err)
	}

	tmp, err := os.CreateTemp(dir, ticker+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cache for %s/%s: %w", region, ticker, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(s.header()); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache header for %s/%s: %w", region, ticker, err)
	}
	for _, b := range bars {
		if err := w.Write(s.row(ticker, b)); err != nil {
			tmp.Close()
			return fmt.Errorf("write cache row for %s/%s: %w", region, ticker, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush cache for %s/%s: %w", region, ticker, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp cache for %s/%s: %w", region, ticker, err)
	}
	if err := os.Rename(tmp.Name(), s.seriesPath(region, ticker)); err != nil {
		return fmt.Errorf("replace cache for %s/%s: %w", region, ticker, err)
	}
	return nil
}

func (s *CSVStore) header() []string {
	h := []string{"Date", "Open", "High", "Low", "Close"}
	if s.includeAdjClose {
		h = append(h, "AdjClose")
	}
	h = append(h, "Volume")
	if s.includeTicker {
		h = append(h, "Ticker")
	}
	return h
}

func (s *CSVStore) row(ticker string, b model.Bar) []string {
	rec := []string{
		b.Date.Format(model.DateOnly),
		formatFloat(b.Open),
		formatFloat(b.High),
		formatFloat(b.Low),
		formatFloat(b.Close),
	}
	if s.includeAdjClose {
		rec = append(rec, formatFloat(b.AdjClose))
	}
	rec = append(rec, formatFloat(b.Volume))
	if s.includeTicker {
		rec = append(rec, ticker)
	}
	return rec
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// columnIndex maps the canonical column names to positions in a header
// row. -1 means the column is absent.
type columnIndex struct {
	date, open, high, low, close, adjClose, volume int
}

func headerIndex(header []string) (columnIndex, error) {
	cols := columnIndex{date: -1, open: -1, high: -1, low: -1, close: -1, adjClose: -1, volume: -1}
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "Date":
			cols.date = i
		case "Open":
			cols.open = i
		case "High":
			cols.high = i
		case "Low":
			cols.low = i
		case "Close":
			cols.close = i
		case "AdjClose", "Adj Close":
			cols.adjClose = i
		case "Volume":
			cols.volume = i
		}
	}
	for name, idx := range map[string]int{
		"Date": cols.date, "Open": cols.open, "High": cols.high,
		"Low": cols.low, "Close": cols.close, "Volume": cols.volume,
	} {
		if idx < 0 {
			return cols, fmt.Errorf("missing column %q", name)
		}
	}
	return cols, nil
}

func parseRow(rec []string, cols columnIndex) (model.Bar, error) {
	var b model.Bar

	date, err := time.Parse(model.DateOnly, rec[cols.date])
	if err != nil {
		return b, fmt.Errorf("bad date %q", rec[cols.date])
	}
	b.Date = model.Day(date)

	fields := []struct {
		idx int
		dst *float64
	}{
		{cols.open, &b.Open},
		{cols.high, &b.High},
		{cols.low, &b.Low},
		{cols.close, &b.Close},
		{cols.volume, &b.Volume},
	}
	if cols.adjClose >= 0 {
		fields = append(fields, struct {
			idx int
			dst *float64
		}{cols.adjClose, &b.AdjClose})
	}
	for _, f := range fields {
		if f.idx >= len(rec) {
			return b, fmt.Errorf("short row")
		}
		v, err := strconv.ParseFloat(rec[f.idx], 64)
		if err != nil {
			return b, fmt.Errorf("bad number %q", rec[f.idx])
		}
		*f.dst = v
	}
	return b, nil
}
