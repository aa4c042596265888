package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"TickerVault/internal/model"
)

// YahooFetcher implements Fetcher using the Yahoo Finance public API:
// the chart endpoint for daily bars and the quoteSummary endpoint for
// company metadata.
type YahooFetcher struct {
	Client  *http.Client
	BaseURL string
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional
// proxy support.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL: "https://query1.finance.yahoo.com",
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []interface{} `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// FetchDailyBars requests daily bars from start (inclusive) through now.
func (f *YahooFetcher) FetchDailyBars(symbol string, start time.Time) ([]model.Bar, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d&events=div%%2Csplit",
		f.BaseURL, url.PathEscape(symbol), model.Day(start).Unix(), time.Now().Unix())

	body, err := f.get(u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if e := chart.Chart.Error; e != nil {
		if strings.EqualFold(e.Code, "Not Found") {
			return nil, fmt.Errorf("yahoo: %s: %w", e.Description, ErrUnknownTicker)
		}
		return nil, fmt.Errorf("yahoo api error: %s", e.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, nil // no new data
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]
	var adj []interface{}
	if len(result.Indicators.AdjClose) > 0 {
		adj = result.Indicators.AdjClose[0].AdjClose
	}

	bars := make([]model.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		b := model.Bar{
			Date:     model.Day(time.Unix(ts, 0).UTC()),
			Open:     o,
			High:     h,
			Low:      l,
			Close:    c,
			AdjClose: c,
			Volume:   toFloat(quote.Volume[i]),
		}
		if i < len(adj) {
			if v := toFloat(adj[i]); v != 0 {
				b.AdjClose = v
			}
		}
		bars = append(bars, b)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// yahooQuoteSummary is the response structure from the quoteSummary API.
// Numeric fields arrive as {raw, fmt} objects; only raw is used.
type yahooQuoteSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				ShortName string    `json:"shortName"`
				MarketCap *rawValue `json:"marketCap"`
			} `json:"price"`
			SummaryProfile *struct {
				Sector string `json:"sector"`
			} `json:"summaryProfile"`
			DefaultKeyStatistics *struct {
				TrailingEps *rawValue `json:"trailingEps"`
			} `json:"defaultKeyStatistics"`
			FinancialData *struct {
				RecommendationKey string `json:"recommendationKey"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type rawValue struct {
	Raw *float64 `json:"raw"`
}

// FetchMetadata requests company metadata for a symbol. Fields the API
// does not provide stay at their zero values.
func (f *YahooFetcher) FetchMetadata(symbol string) (*model.Metadata, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price%%2CsummaryProfile%%2CdefaultKeyStatistics%%2CfinancialData",
		f.BaseURL, url.PathEscape(symbol))

	body, err := f.get(u)
	if err != nil {
		return nil, err
	}

	var qs yahooQuoteSummary
	if err := json.Unmarshal(body, &qs); err != nil {
		return nil, fmt.Errorf("yahoo decode metadata: %w", err)
	}
	if e := qs.QuoteSummary.Error; e != nil {
		if strings.EqualFold(e.Code, "Not Found") {
			return nil, fmt.Errorf("yahoo: %s: %w", e.Description, ErrUnknownTicker)
		}
		return nil, fmt.Errorf("yahoo metadata error: %s", e.Description)
	}
	if len(qs.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no metadata for %s: %w", symbol, ErrUnknownTicker)
	}

	r := qs.QuoteSummary.Result[0]
	meta := &model.Metadata{}
	if r.Price != nil {
		meta.Company = r.Price.ShortName
		if r.Price.MarketCap != nil {
			meta.MarketCap = r.Price.MarketCap.Raw
		}
	}
	if r.SummaryProfile != nil {
		meta.Sector = r.SummaryProfile.Sector
	}
	if r.DefaultKeyStatistics != nil && r.DefaultKeyStatistics.TrailingEps != nil {
		meta.EPS = r.DefaultKeyStatistics.TrailingEps.Raw
	}
	if r.FinancialData != nil {
		meta.AnalystRating = r.FinancialData.RecommendationKey
	}
	return meta, nil
}

func (f *YahooFetcher) get(u string) ([]byte, error) {
	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("yahoo: status 404: %w", ErrUnknownTicker)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
