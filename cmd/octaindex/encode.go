package main

import (
	"github.com/iwpnd/octaindex"
	"github.com/spf13/cobra"
)

type encodeOutput struct {
	X       uint16 `json:"x"`
	Y       uint16 `json:"y"`
	Z       uint16 `json:"z"`
	Morton  uint64 `json:"morton"`
	Hilbert uint64 `json:"hilbert"`
	Kernel  string `json:"kernel"`
}

func newEncodeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "encode x y z",
		Short: "Print the Morton and Hilbert codes of a 16-bit point",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			xyz, err := parseUint16s(args)
			if err != nil {
				return err
			}
			points := []octaindex.Point16{{X: xyz[0], Y: xyz[1], Z: xyz[2]}}

			e := c.engine()
			return printJSON(cmd.OutOrStdout(), encodeOutput{
				X:       xyz[0],
				Y:       xyz[1],
				Z:       xyz[2],
				Morton:  e.MortonEncode(points)[0],
				Hilbert: e.HilbertEncode(points)[0],
				Kernel:  octaindex.ActiveKernel().String(),
			})
		},
	}
}
