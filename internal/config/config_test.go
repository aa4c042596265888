package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}
	if cfg.DataDir != "data" {
		t.Errorf("expected default data_dir, got %q", cfg.DataDir)
	}
	if cfg.DataSource.Provider != "yahoo" {
		t.Errorf("expected default provider yahoo, got %q", cfg.DataSource.Provider)
	}
	if len(cfg.Regions) != 2 {
		t.Fatalf("expected 2 default regions, got %d", len(cfg.Regions))
	}
	if cfg.Regions[0].Name != "US" || cfg.Regions[1].Name != "Canada" {
		t.Errorf("unexpected default regions: %+v", cfg.Regions)
	}
	if cfg.BackfillYears != 5 {
		t.Errorf("expected default backfill of 5 years, got %d", cfg.BackfillYears)
	}
	if !cfg.Cache.AdjCloseColumn || !cfg.Cache.TickerColumn {
		t.Error("expected both optional cache columns enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
data_dir: /var/cache/ticks
data_source:
  provider: stooq
regions:
  - name: US
    market_open: "09:30"
    market_close: "16:00"
    timezone: America/New_York
backfill_years: 2
cache:
  adj_close_column: false
  ticker_column: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DATA_PROVIDER", "mock")
	t.Setenv("BACKFILL_YEARS", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/var/cache/ticks" {
		t.Errorf("expected data_dir from file, got %q", cfg.DataDir)
	}
	if cfg.DataSource.Provider != "mock" {
		t.Errorf("env override should win, got %q", cfg.DataSource.Provider)
	}
	if cfg.BackfillYears != 7 {
		t.Errorf("env override should win, got %d", cfg.BackfillYears)
	}
	if cfg.Cache.AdjCloseColumn {
		t.Error("expected adj_close_column disabled by file")
	}
	if len(cfg.Regions) != 1 {
		t.Errorf("expected regions from file, got %+v", cfg.Regions)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatal(err)
		}
		return cfg
	}

	cfg := base()
	cfg.DataSource.Provider = "bloomberg"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown provider")
	}

	cfg = base()
	cfg.Regions = nil
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty regions")
	}

	cfg = base()
	cfg.Regions = append(cfg.Regions, Region{Name: "US"})
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for duplicate region")
	}

	cfg = base()
	cfg.Regions[0].Name = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty region name")
	}
}
