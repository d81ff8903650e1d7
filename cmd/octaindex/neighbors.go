package main

import (
	"github.com/spf13/cobra"
)

type neighborOutput struct {
	Direction string `json:"direction"`
	Cell      string `json:"cell"`
}

func newNeighborsCmd(_ *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "neighbors cellid",
		Short: "List the 14 lattice neighbors of a cell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCellArg(args[0])
			if err != nil {
				return err
			}

			out := make([]neighborOutput, 0, 14)
			for dir, n := range id.Neighbors().All() {
				out = append(out, neighborOutput{Direction: dir.String(), Cell: n.String()})
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}
