package main

import (
	"fmt"
	"strconv"

	"github.com/iwpnd/octaindex"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRingCmd(c *cli) *cobra.Command {
	var shell bool

	cmd := &cobra.Command{
		Use:   "ring cellid k",
		Short: "List all cells within k hops of a cell",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCellArg(args[0])
			if err != nil {
				return err
			}
			k, err := strconv.Atoi(args[1])
			if err != nil || k < 0 {
				return fmt.Errorf("k must be a non-negative integer, got %q", args[1])
			}

			var cells []octaindex.CellID
			if shell {
				cells = octaindex.KShell(id, k)
			} else {
				cells = octaindex.KRing(id, k)
			}
			c.logger.Debug("ring computed",
				zap.Stringer("center", id),
				zap.Int("k", k),
				zap.Bool("shell", shell),
				zap.Int("cells", len(cells)),
			)
			return printJSON(cmd.OutOrStdout(), stringsOf(cells))
		},
	}
	cmd.Flags().BoolVar(&shell, "shell", false, "Only cells at exactly k hops")
	return cmd
}
