package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"TickerVault/internal/model"
	"TickerVault/internal/updater"
)

type fakeService struct {
	regions []string
	result  *updater.Result
	err     error

	gotRegion  string
	gotTickers []string
}

func (f *fakeService) Regions() []string { return append([]string(nil), f.regions...) }

func (f *fakeService) RunRegion(region string, newTickers []string) (*updater.Result, error) {
	f.gotRegion = region
	f.gotTickers = newTickers
	return f.result, f.err
}

func TestHandleRegions(t *testing.T) {
	srv := NewServer(&fakeService{regions: []string{"US", "Canada"}})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/regions", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var resp RegionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Regions) != 2 || resp.Regions[0] != "Canada" || resp.Regions[1] != "US" {
		t.Errorf("expected sorted regions, got %v", resp.Regions)
	}
}

func TestHandleUpdate(t *testing.T) {
	svc := &fakeService{
		regions: []string{"US"},
		result: &updater.Result{
			Region: "US",
			Log:    []string{"No new data for AAPL in US."},
			Summary: map[string]model.SummaryRow{
				"AAPL": {Ticker: "AAPL", Company: "Apple Inc.", CurrentPrice: model.Float(251)},
			},
		},
	}
	srv := NewServer(svc)

	body := strings.NewReader(`{"region":"US","newTickers":["TSLA"]}`)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/update", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotRegion != "US" || len(svc.gotTickers) != 1 || svc.gotTickers[0] != "TSLA" {
		t.Errorf("service called with %q %v", svc.gotRegion, svc.gotTickers)
	}

	var resp UpdateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	row, ok := resp.Summary["AAPL"]
	if !ok {
		t.Fatal("expected AAPL summary row")
	}
	if row.CurrentPrice == nil || *row.CurrentPrice != 251 {
		t.Errorf("expected current price 251, got %v", row.CurrentPrice)
	}
	// N/A fields serialize as null, never 0.
	if row.PercentChange != nil {
		t.Errorf("expected null percent change, got %v", *row.PercentChange)
	}
	if len(resp.Log) != 1 {
		t.Errorf("expected 1 log line, got %v", resp.Log)
	}
}

func TestHandleUpdate_Validation(t *testing.T) {
	svc := &fakeService{regions: []string{"US"}, err: errors.New("should not be called")}
	srv := NewServer(svc)

	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"bad json", http.MethodPost, "{", http.StatusBadRequest},
		{"missing region", http.MethodPost, `{}`, http.StatusBadRequest},
		{"unknown region", http.MethodPost, `{"region":"Atlantis"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(tt.method, "/api/update", strings.NewReader(tt.body)))
		if rec.Code != tt.status {
			t.Errorf("%s: expected status %d, got %d", tt.name, tt.status, rec.Code)
		}
	}
}

func TestHandleHealth(t *testing.T) {
	srv := NewServer(&fakeService{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
}
