package collector

import (
	"time"

	"TickerVault/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars     map[string][]model.Bar // per-symbol bars; Fetch filters by start date
	Meta     map[string]*model.Metadata
	BarsErr  error
	MetaErr  error
	Requests []string // symbols requested, in order
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(symbol string, start time.Time) ([]model.Bar, error) {
	m.Requests = append(m.Requests, symbol)
	if m.BarsErr != nil {
		return nil, m.BarsErr
	}
	cutoff := model.Day(start)
	var out []model.Bar
	for _, b := range m.Bars[symbol] {
		if !b.Date.Before(cutoff) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *MockFetcher) FetchMetadata(symbol string) (*model.Metadata, error) {
	if m.MetaErr != nil {
		return nil, m.MetaErr
	}
	if meta, ok := m.Meta[symbol]; ok {
		return meta, nil
	}
	return &model.Metadata{}, nil
}

// GenerateBars produces count consecutive daily bars ending at end with a
// gentle drift around basePrice, for development use.
func GenerateBars(basePrice float64, count int, end time.Time) []model.Bar {
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Date:     model.Day(end.AddDate(0, 0, -(count - 1 - i))),
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			AdjClose: p,
			Volume:   1000000,
		}
	}
	return bars
}
