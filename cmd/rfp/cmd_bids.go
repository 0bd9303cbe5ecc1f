package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/rfp/report"
	"github.com/tailored-agentic-units/rfp/store"
	"github.com/tailored-agentic-units/rfp/workflow"
)

func newBidsCmd(g *globals) *cobra.Command {
	var filter store.Filter
	var outcome string

	cmd := &cobra.Command{
		Use:   "bids [run-id]",
		Short: "List stored bids, or show one bid in full",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			if len(args) == 1 {
				lookup := svc.Lookup()
				if lookup == nil {
					return errors.New("no store or archive configured")
				}
				bid, err := lookup.Bid(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), bid)
				}
				return report.Bid(cmd.OutOrStdout(), bid, mode)
			}

			db := svc.Store()
			if db == nil {
				return errors.New("listing bids requires a configured store")
			}
			filter.Outcome = workflow.Outcome(outcome)
			rows, err := db.ListBids(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			return report.Summaries(cmd.OutOrStdout(), rows, mode)
		},
	}

	cmd.Flags().StringVar(&outcome, "outcome", "", "Only bids with this outcome (Approved, Escalated, Declined, Failed)")
	cmd.Flags().StringVar(&filter.RFPID, "rfp", "", "Only bids for this RFP ID")
	cmd.Flags().IntVarP(&filter.Limit, "limit", "n", 50, "Maximum rows")
	return cmd
}
