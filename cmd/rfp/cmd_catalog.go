package main

import (
	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/rfp/report"
)

func newCatalogCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List catalog products and acceptance-test costs",
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
			svc, err := g.open(cmd, cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			if asJSON {
				costs := make(map[string]float64)
				for _, name := range svc.TestCosts().Names() {
					costs[name], _ = svc.TestCosts().CostOf(name)
				}
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"products":   svc.Catalog().Products(),
					"test_costs": costs,
				})
			}
			return report.Catalog(cmd.OutOrStdout(), svc.Catalog().Products(), svc.TestCosts(), mode)
		},
	}
}
