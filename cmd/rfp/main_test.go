package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/rfp/config"
	"github.com/tailored-agentic-units/rfp/observability"
	"github.com/tailored-agentic-units/rfp/service"
	"github.com/tailored-agentic-units/rfp/transport"
	"github.com/tailored-agentic-units/rfp/workflow"
)

func testdata(parts ...string) string {
	return filepath.Join(append([]string{"..", "..", "testdata"}, parts...)...)
}

// writeConfig writes a config file that persists to a temporary directory.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	catalogPath, _ := filepath.Abs(testdata("catalog.yaml"))
	ratesPath, _ := filepath.Abs(testdata("rates.yaml"))

	content := "catalog: " + catalogPath + "\n" +
		"rates:\n  file: " + ratesPath + "\n" +
		"store:\n  dsn: " + filepath.Join(dir, "rfp.db") + "\n" +
		"archive:\n  path: " + filepath.Join(dir, "archive") + "\n" +
		"log:\n  level: error\n"

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestEvaluate_JSON(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, "evaluate", "-c", cfg, "-f", "json", testdata("rfps", "RFP-GOV-2025-001.yaml"))
	require.NoError(t, err)

	var bids []workflow.ConsolidatedBid
	require.NoError(t, json.Unmarshal([]byte(out), &bids))
	require.Len(t, bids, 1)
	assert.Equal(t, "RFP-GOV-2025-001", bids[0].RFPID)
	assert.NotEmpty(t, bids[0].Audit)

	listed, err := execute(t, "bids", "-c", cfg, "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, listed, bids[0].RunID)

	shown, err := execute(t, "bids", "-c", cfg, bids[0].RunID)
	require.NoError(t, err)
	assert.Contains(t, shown, "RFP-GOV-2025-001")
}

func TestBatch_Text(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, "batch", "-c", cfg, "--workers", "2", testdata("rfps", "*"))
	require.NoError(t, err)
	assert.Contains(t, out, "RFP-GOV-2025-001")
	assert.Contains(t, out, "RFP-PSU-2025-002")
	assert.Contains(t, out, "2 RUNS")
}

func TestCatalogAndRates(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, "catalog", "-c", cfg, "-f", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "OEM-PVC-4C-50")
	assert.Contains(t, out, "Site Acceptance Test (SAT)")

	out, err = execute(t, "rates", "-c", cfg, "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"Copper": 9200`)
}

func TestResume_List(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, "resume", "-c", cfg, "--list")
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(out))
}

func TestCommandErrors(t *testing.T) {
	cfg := writeConfig(t)

	tests := []struct {
		name string
		args []string
	}{
		{"evaluate without args", []string{"evaluate", "-c", cfg}},
		{"evaluate missing file", []string{"evaluate", "-c", cfg, "missing.yaml"}},
		{"unknown format", []string{"catalog", "-c", cfg, "-f", "html"}},
		{"missing config", []string{"catalog", "-c", "missing.yaml"}},
		{"bad log level", []string{"catalog", "-c", cfg, "--log-level", "loud"}},
		{"resume without store", []string{"resume", "run-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestServeMux(t *testing.T) {
	path := writeConfig(t)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetricsObserver("rfp", reg)
	require.NoError(t, err)

	svc, err := service.New(cfg, service.WithObserver(metrics))
	require.NoError(t, err)
	defer svc.Close()

	srv := httptest.NewServer(newMux(svc, metrics, reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := service.LoadRequest(testdata("rfps", "RFP-PSU-2025-002.json"))
	require.NoError(t, err)

	client := transport.NewClient(srv.Client(), srv.URL)
	bid, err := client.Evaluate(context.Background(), req)
	require.NoError(t, err)

	stored, err := client.GetBid(context.Background(), bid.RunID)
	require.NoError(t, err)
	assert.Equal(t, bid.Outcome, stored.Outcome)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Contains(t, string(body), "rfp_outcomes_total")
	assert.Contains(t, string(body), `type="rpc.call"`)
	assert.Contains(t, string(body), `type="workflow.start"`)
}
