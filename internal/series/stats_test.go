package series

import (
	"testing"

	"TickerVault/internal/model"
)

func TestSummarize_PercentChange(t *testing.T) {
	now := day(0)
	bars := []model.Bar{bar(-1, 100), bar(0, 110)}

	s := Summarize(bars, now)
	if s.CurrentPrice == nil || *s.CurrentPrice != 110 {
		t.Fatalf("expected current price 110, got %v", s.CurrentPrice)
	}
	if s.PercentChange == nil {
		t.Fatal("expected percent change, got N/A")
	}
	if got := *s.PercentChange; got < 9.999 || got > 10.001 {
		t.Errorf("expected percent change 10.0, got %.4f", got)
	}
}

func TestSummarize_ZeroPreviousCloseIsUnavailable(t *testing.T) {
	bars := []model.Bar{bar(-1, 0), bar(0, 100)}
	s := Summarize(bars, day(0))
	if s.PercentChange != nil {
		t.Errorf("expected N/A percent change for zero previous close, got %.2f", *s.PercentChange)
	}
}

func TestSummarize_SingleBar(t *testing.T) {
	s := Summarize([]model.Bar{bar(0, 50)}, day(0))
	if s.PreviousClose != nil || s.PercentChange != nil {
		t.Error("expected N/A previous close and percent change for a single bar")
	}
	if s.CurrentPrice == nil || *s.CurrentPrice != 50 {
		t.Errorf("expected current price 50, got %v", s.CurrentPrice)
	}
}

func TestSummarize_EmptySeries(t *testing.T) {
	s := Summarize(nil, day(0))
	if s.CurrentPrice != nil || s.Decrease1Y != nil || s.Decrease90D != nil {
		t.Error("expected all-N/A stats for an empty series")
	}
}

func TestSummarize_TrailingWindows(t *testing.T) {
	now := day(0)

	// Highs 50/80/60 dated 400/200/10 days ago. The 400-day bar is outside
	// the 1-year window, so the 1-year high is 80; only the 10-day bar is
	// inside the 90-day window, so the 90-day high equals the last high.
	b1 := bar(-400, 50)
	b1.High = 50
	b2 := bar(-200, 80)
	b2.High = 80
	b3 := bar(-10, 60)
	b3.High = 60
	b3.Close = 60

	s := Summarize([]model.Bar{b1, b2, b3}, now)

	if s.High1Y == nil || *s.High1Y != 80 {
		t.Fatalf("expected 1y high 80, got %v", s.High1Y)
	}
	if s.Decrease1Y == nil || *s.Decrease1Y != 25.0 {
		t.Errorf("expected 1y decrease 25.0, got %v", s.Decrease1Y)
	}
	if s.High90D == nil || *s.High90D != 60 {
		t.Fatalf("expected 90d high 60, got %v", s.High90D)
	}
	if s.Decrease90D == nil || *s.Decrease90D != 0.0 {
		t.Errorf("expected 90d decrease 0.0, got %v", s.Decrease90D)
	}
}

func TestSummarize_ZeroHighIsUnavailable(t *testing.T) {
	b := bar(0, 10)
	b.High = 0
	s := Summarize([]model.Bar{b}, day(0))
	if s.Decrease1Y != nil || s.Decrease90D != nil {
		t.Error("expected N/A drawdowns when the window high is zero")
	}
}
