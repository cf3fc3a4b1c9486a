package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
)

func newStatesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "states",
		Short: "List the states present in the data file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := root.loadTable()
			if err != nil {
				return err
			}
			return printLines(cmd, domain.States(t))
		},
	}
}

func newMetrosCmd(root *rootOptions) *cobra.Command {
	var state string
	cmd := &cobra.Command{
		Use:   "metros",
		Short: "List the metros of a state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := root.loadTable()
			if err != nil {
				return err
			}
			sel := domain.NewSelector(t)
			if err := sel.SelectState(state); err != nil {
				return err
			}
			return printLines(cmd, sel.Candidates().Metros)
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "two-letter state code (required)")
	_ = cmd.MarkFlagRequired("state")
	return cmd
}

func newNeighborhoodsCmd(root *rootOptions) *cobra.Command {
	var state, metro string
	cmd := &cobra.Command{
		Use:   "neighborhoods",
		Short: "List the neighborhoods of a metro",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := root.loadTable()
			if err != nil {
				return err
			}
			sel := domain.NewSelector(t)
			if err := sel.SelectState(state); err != nil {
				return err
			}
			if err := sel.SelectMetro(metro); err != nil {
				return err
			}
			return printLines(cmd, sel.Candidates().Neighborhoods)
		},
	}
	f := cmd.Flags()
	f.StringVar(&state, "state", "", "two-letter state code (required)")
	f.StringVar(&metro, "metro", "", "metro name, e.g. \"Austin, TX\" (required)")
	_ = cmd.MarkFlagRequired("state")
	_ = cmd.MarkFlagRequired("metro")
	return cmd
}

func printLines(cmd *cobra.Command, lines []string) error {
	out := cmd.OutOrStdout()
	for _, l := range lines {
		if _, err := fmt.Fprintln(out, l); err != nil {
			return err
		}
	}
	return nil
}
