package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/rfp/report"
	"github.com/tailored-agentic-units/rfp/service"
	"github.com/tailored-agentic-units/rfp/workflow"
)

func newEvaluateCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate <file|glob>...",
		Short: "Run requests through the workflow one at a time and print each bid",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, asJSON, err := g.mode()
			if err != nil {
				return err
			}

			cfg, err := g.load()
			if err != nil {
				return err
			}
			reqs, err := service.LoadRequests(args)
			if err != nil {
				return err
			}

			svc, err := g.open(cmd, cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			var (
				bids []*workflow.ConsolidatedBid
				errs []error
			)
			for _, req := range reqs {
				st, err := svc.Orchestrator().Run(cmd.Context(), req)
				if err != nil {
					errs = append(errs, err)
				}
				if st == nil || st.Bid == nil {
					continue
				}
				bids = append(bids, st.Bid)
				if !asJSON {
					if err := report.Bid(cmd.OutOrStdout(), st.Bid, mode); err != nil {
						return err
					}
				}
			}

			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), bids); err != nil {
					return err
				}
			}
			return errors.Join(errs...)
		},
	}
}
