package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tailored-agentic-units/rfp/config"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	if cfg.Workflow.AutoApproveRisk != 5 {
		t.Errorf("Workflow.AutoApproveRisk = %v, want 5", cfg.Workflow.AutoApproveRisk)
	}
	if cfg.Pricing.ExchangeRate != 83 {
		t.Errorf("Pricing.ExchangeRate = %v, want 83", cfg.Pricing.ExchangeRate)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.DSN != "" {
		t.Errorf("Store = %+v, want sqlite driver with store disabled", cfg.Store)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":8080")
	}
}

func TestConfig_Merge_ZeroValuesPreserveDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Merge(&config.Config{})

	if diff := cfg.Match.TopK; diff != 5 {
		t.Errorf("Match.TopK = %d, want 5", diff)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
catalog: testdata/catalog.yaml
pricing:
  exchange_rate: 84.5
  max_grand_total: 50000000
match:
  top_k: 8
workflow:
  auto_approve_risk: 4
  graph:
    observer: noop
store:
  dsn: rfp.db
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("RFP_LOG_FORMAT", "json")
	t.Setenv("RFP_EXCHANGE_RATE", "85")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Catalog", cfg.Catalog, "testdata/catalog.yaml"},
		{"Pricing.ExchangeRate (env wins)", cfg.Pricing.ExchangeRate, 85.0},
		{"Pricing.MaxGrandTotal", cfg.Pricing.MaxGrandTotal, 50000000.0},
		{"Pricing.TargetMargin (default kept)", cfg.Pricing.TargetMargin, 1.15},
		{"Match.TopK", cfg.Match.TopK, 8},
		{"Workflow.AutoApproveRisk", cfg.Workflow.AutoApproveRisk, 4.0},
		{"Workflow.Graph.Observer", cfg.Workflow.Graph.Observer, "noop"},
		{"Workflow.Graph.MaxIterations (default kept)", cfg.Workflow.Graph.MaxIterations, 50},
		{"Store.Driver (default kept)", cfg.Store.Driver, "sqlite"},
		{"Store.DSN", cfg.Store.DSN, "rfp.db"},
		{"Log.Level", cfg.Log.Level, "debug"},
		{"Log.Format", cfg.Log.Format, "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		if _, err := config.Load(filepath.Join(dir, "missing.yaml")); err == nil {
			t.Error("Load() expected error")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		os.WriteFile(path, []byte("pricing: [unclosed"), 0o644)
		if _, err := config.Load(path); err == nil {
			t.Error("Load() expected error")
		}
	})

	t.Run("invalid numeric env", func(t *testing.T) {
		t.Setenv("RFP_AUTO_APPROVE_RISK", "high")
		if _, err := config.Load(""); err == nil {
			t.Error("Load() expected error")
		}
	})
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv("RFP_STORE_DSN", "user:pass@tcp(db:3306)/rfp?parseTime=true")
	t.Setenv("RFP_STORE_DRIVER", "mysql")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Driver != "mysql" {
		t.Errorf("Store.Driver = %q, want mysql", cfg.Store.Driver)
	}
}
