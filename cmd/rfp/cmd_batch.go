package main

import (
	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/rfp/report"
	"github.com/tailored-agentic-units/rfp/service"
	"github.com/tailored-agentic-units/rfp/workflow"
)

func newBatchCmd(g *globals) *cobra.Command {
	var (
		workers  int
		failFast bool
	)

	cmd := &cobra.Command{
		Use:   "batch <glob>...",
		Short: "Evaluate many requests concurrently and print a summary",
		Long:  "Evaluate every request file matched by the patterns on a bounded worker\npool. Patterns support ** for recursive matching.",
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
			if workers > 0 {
				cfg.Workflow.Batch.MaxWorkers = workers
			}
			if cmd.Flags().Changed("fail-fast") {
				cfg.Workflow.Batch.FailFastNil = &failFast
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

			states, runErr := svc.Orchestrator().RunBatch(cmd.Context(), reqs)

			bids := make([]*workflow.ConsolidatedBid, 0, len(states))
			for _, st := range states {
				if st != nil && st.Bid != nil {
					bids = append(bids, st.Bid)
				}
			}

			if asJSON {
				err = writeJSON(cmd.OutOrStdout(), bids)
			} else {
				err = report.Batch(cmd.OutOrStdout(), bids, mode)
			}
			if err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Maximum concurrent runs (overrides config)")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop scheduling runs after the first infrastructure error")
	return cmd
}
