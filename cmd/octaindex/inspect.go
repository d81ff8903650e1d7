package main

import (
	"fmt"

	"github.com/iwpnd/octaindex"
	"github.com/spf13/cobra"
)

type inspectOutput struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	// FrameName is empty for frame-local identifiers and unregistered frames.
	FrameName string         `json:"frame_name,omitempty"`
	Fields    map[string]any `json:"fields"`
	Position  [3]float64     `json:"position"`
}

func newInspectCmd(_ *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect id",
		Short: "Decode any Bech32m identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := octaindex.ParseIdentifier(args[0])
			if err != nil {
				return err
			}
			out, err := describe(v)
			if err != nil {
				return err
			}
			out.ID = args[0]
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func describe(v any) (inspectOutput, error) {
	var out inspectOutput
	switch id := v.(type) {
	case octaindex.Index64:
		x, y, z := id.DecodeCoords()
		out.Type = "index64"
		out.FrameName = frameName(id.Frame())
		out.Fields = map[string]any{
			"frame": id.Frame(), "tier": id.Tier(), "lod": id.LOD(),
			"morton": id.Morton(), "x": x, "y": y, "z": z,
		}
		p := id.Position()
		out.Position = [3]float64{p.X, p.Y, p.Z}
	case octaindex.Hilbert64:
		x, y, z := id.DecodeCoords()
		out.Type = "hilbert64"
		out.FrameName = frameName(id.Frame())
		out.Fields = map[string]any{
			"frame": id.Frame(), "tier": id.Tier(), "lod": id.LOD(),
			"hilbert": id.Hilbert(), "x": x, "y": y, "z": z,
		}
		p := id.Position()
		out.Position = [3]float64{p.X, p.Y, p.Z}
	case octaindex.Route64:
		out.Type = "route64"
		out.Fields = map[string]any{
			"tier": id.Tier(), "x": id.X(), "y": id.Y(), "z": id.Z(),
		}
		p := id.Position()
		out.Position = [3]float64{p.X, p.Y, p.Z}
	case octaindex.Galactic128:
		out.Type = "galactic128"
		out.FrameName = frameName(id.Frame())
		c := id.Coord()
		out.Fields = map[string]any{
			"frame": id.Frame(), "scale_mant": id.ScaleMant(), "scale_tier": id.ScaleTier(),
			"lod": id.LOD(), "attr_usr": id.AttrUsr(), "x": c.X(), "y": c.Y(), "z": c.Z(),
		}
		p := id.Position()
		out.Position = [3]float64{p.X, p.Y, p.Z}
	case octaindex.CellID:
		out.Type = "cellid"
		out.FrameName = frameName(id.Frame())
		out.Fields = map[string]any{
			"frame": id.Frame(), "resolution": id.Resolution(), "exponent": id.Exponent(),
			"flags": id.Flags(), "x": id.X(), "y": id.Y(), "z": id.Z(),
		}
		p := id.Position()
		out.Position = [3]float64{p.X, p.Y, p.Z}
	default:
		return out, fmt.Errorf("unsupported identifier type %T", v)
	}
	return out, nil
}

func frameName(id uint8) string {
	desc, err := octaindex.DefaultFrames.Lookup(id)
	if err != nil {
		return ""
	}
	return desc.Name
}
