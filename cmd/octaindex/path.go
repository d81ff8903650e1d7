package main

import (
	"fmt"

	"github.com/iwpnd/octaindex"
	"github.com/spf13/cobra"
)

type pathOutput struct {
	Cells []string `json:"cells"`
	Cost  float64  `json:"cost"`
	Steps int      `json:"steps"`
}

func newPathCmd(_ *cli) *cobra.Command {
	var (
		maxExpansions int
		line          bool
	)

	cmd := &cobra.Command{
		Use:   "path from to",
		Short: "Find the shortest lattice path between two cells",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseCellArg(args[0])
			if err != nil {
				return err
			}
			to, err := parseCellArg(args[1])
			if err != nil {
				return err
			}
			if from.Frame() != to.Frame() || from.Resolution() != to.Resolution() {
				return fmt.Errorf("cells must share frame and resolution")
			}

			if line {
				coords := octaindex.TraceLine(from.Coord(), to.Coord())
				cells := make([]string, 0, len(coords))
				for _, c := range coords {
					id, err := octaindex.CellIDFromCoord(from.Frame(), from.Resolution(), c)
					if err != nil {
						return err
					}
					cells = append(cells, id.String())
				}
				return printJSON(cmd.OutOrStdout(), pathOutput{Cells: cells, Steps: len(cells) - 1})
			}

			p, ok := octaindex.AStar(from, to, octaindex.EuclideanCost[octaindex.CellID]{},
				octaindex.WithMaxExpansions(maxExpansions))
			if !ok {
				return fmt.Errorf("no path from %s to %s within %d expansions", from, to, maxExpansions)
			}
			return printJSON(cmd.OutOrStdout(), pathOutput{
				Cells: stringsOf(p.Cells),
				Cost:  p.Cost,
				Steps: p.Len() - 1,
			})
		},
	}
	cmd.Flags().IntVar(&maxExpansions, "max-expansions", octaindex.DefaultMaxExpansions, "A* expansion limit")
	cmd.Flags().BoolVar(&line, "line", false, "Trace the straight lattice line instead of searching")
	return cmd
}
