package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/rfp/config"
	"github.com/tailored-agentic-units/rfp/observability"
	"github.com/tailored-agentic-units/rfp/report"
	"github.com/tailored-agentic-units/rfp/service"
)

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	configFile string
	logLevel   string
	format     string
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:           "rfp",
		Short:         "Industrial cable RFP workflow engine",
		Long:          "rfp qualifies incoming cable RFPs, matches line items to the product\ncatalog, prices the bid and consolidates an approve, escalate or decline\ndecision with a full audit trail.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configFile, "config", "c", "", "Path to config YAML file")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	pf.StringVarP(&g.format, "format", "f", "text", "Output format: text, markdown or json")

	root.AddCommand(
		newEvaluateCmd(g),
		newBatchCmd(g),
		newResumeCmd(g),
		newBidsCmd(g),
		newServeCmd(g),
		newRatesCmd(g),
		newCatalogCmd(g),
	)
	return root
}

// load resolves the effective configuration for cmd.
func (g *globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	return cfg, nil
}

// open builds the service, logging to the command's stderr. The "slog"
// observer is re-registered so graph events reach the same logger.
func (g *globals) open(cmd *cobra.Command, cfg *config.Config, opts ...service.Option) (*service.Service, error) {
	logger, err := service.NewLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	observability.RegisterObserver("slog", observability.NewSlogObserver(logger))

	opts = append([]service.Option{service.WithLogger(logger)}, opts...)
	return service.New(cfg, opts...)
}

func (g *globals) mode() (report.Mode, bool, error) {
	if g.format == "json" {
		return report.ASCII, true, nil
	}
	m, err := report.ParseMode(g.format)
	return m, false, err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
