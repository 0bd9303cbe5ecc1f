package main

import (
	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/rfp/report"
)

func newRatesCmd(g *globals) *cobra.Command {
	var (
		file  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Show commodity rates, optionally watching the rate file for changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, asJSON, err := g.mode()
			if err != nil {
				return err
			}

			cfg, err := g.load()
			if err != nil {
				return err
			}
			if file != "" {
				cfg.Rates.File = file
			}
			cfg.Rates.Watch = watch

			svc, err := g.open(cmd, cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			snap := svc.Rates().Snapshot()
			if asJSON {
				err = writeJSON(cmd.OutOrStdout(), snap)
			} else {
				err = report.Rates(cmd.OutOrStdout(), snap, mode)
			}
			if err != nil || !watch {
				return err
			}
			return svc.WatchRates(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Rate file (overrides config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep running and reload the rate file on change")
	return cmd
}
