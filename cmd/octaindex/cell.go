package main

import (
	"fmt"

	"github.com/iwpnd/octaindex"
	"github.com/spf13/cobra"
)

func newCellCmd(_ *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cell frame resolution x y z",
		Short: "Print the Bech32m CellID of a lattice point",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := parseUint8(args[0])
			if err != nil {
				return err
			}
			res, err := parseUint8(args[1])
			if err != nil {
				return err
			}
			xyz, err := parseInt32s(args[2:])
			if err != nil {
				return err
			}

			id, err := octaindex.NewCellID(frame, res, xyz[0], xyz[1], xyz[2], 0, 0)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}
	// flags end at the first positional so "-3" stays a coordinate
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func parseCellArg(s string) (octaindex.CellID, error) {
	id, err := octaindex.ParseCellID(s)
	if err != nil {
		return octaindex.CellID{}, fmt.Errorf("parsing cell %q: %w", s, err)
	}
	return id, nil
}
