package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/rfp/report"
)

func newResumeCmd(g *globals) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "resume [run-id]",
		Short: "Continue an interrupted run from its last checkpoint",
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

			cps := svc.Checkpoints()
			if cps == nil {
				return errors.New("resume requires a configured store or archive")
			}

			if list || len(args) == 0 {
				ids, err := cps.List()
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), ids)
				}
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			}

			st, err := svc.Orchestrator().Resume(cmd.Context(), args[0])
			if st == nil || st.Bid == nil {
				return err
			}
			if asJSON {
				if werr := writeJSON(cmd.OutOrStdout(), st.Bid); werr != nil {
					return werr
				}
			} else if werr := report.Bid(cmd.OutOrStdout(), st.Bid, mode); werr != nil {
				return werr
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List runs with stored checkpoints")
	return cmd
}
