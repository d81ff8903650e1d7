package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/iwpnd/octaindex"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newArchiveCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Write and query cell archives",
	}
	cmd.AddCommand(
		newArchiveWriteCmd(c),
		newArchiveInfoCmd(c),
		newArchiveContainsCmd(c),
	)
	return cmd
}

func newArchiveWriteCmd(c *cli) *cobra.Command {
	var (
		compression string
		keyKind     string
		name        string
	)

	cmd := &cobra.Command{
		Use:   "write path",
		Short: "Write Hilbert64 identifiers read from stdin, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, err := octaindex.ParseCompression(compression)
			if err != nil {
				return err
			}
			kind, ok := lo.Find([]octaindex.KeyKind{octaindex.KeyKindHilbert, octaindex.KeyKindMorton},
				func(k octaindex.KeyKind) bool { return k.String() == keyKind })
			if !ok {
				return fmt.Errorf("unsupported key kind %q", keyKind)
			}

			var cells []octaindex.Hilbert64
			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				line := strings.TrimSpace(sc.Text())
				if line == "" {
					continue
				}
				h, err := octaindex.ParseHilbert64(line)
				if err != nil {
					return err
				}
				cells = append(cells, h)
			}
			if err := sc.Err(); err != nil {
				return fmt.Errorf("reading cells: %w", err)
			}

			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			header, err := octaindex.WriteArchive(f, cells,
				octaindex.WithWriterCompression(comp),
				octaindex.WithKeyKind(kind),
				octaindex.WithMetadata(octaindex.ArchiveMetadata{Name: name}),
			)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			c.logger.Info("archive written",
				zap.String("path", args[0]),
				zap.Uint64("cells", header.CellCount),
				zap.Uint64("entries", header.EntryCount),
			)
			return printJSON(cmd.OutOrStdout(), header)
		},
	}
	cmd.Flags().StringVar(&compression, "compression", "gzip", "Section compression: none, gzip, zstd")
	cmd.Flags().StringVar(&keyKind, "key", "hilbert", "Sort key: hilbert, morton")
	cmd.Flags().StringVar(&name, "name", "", "Archive name stored in metadata")
	return cmd
}

func newArchiveInfoCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "info uri",
		Short: "Print the header and metadata of an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := octaindex.OpenArchive(cmd.Context(), args[0], octaindex.WithArchiveLogger(c.logger))
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			return printJSON(cmd.OutOrStdout(), map[string]any{
				"header":   a.Header(),
				"metadata": a.Metadata(),
			})
		},
	}
}

func newArchiveContainsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "contains uri hilbert64...",
		Short: "Report which cells an archive stores",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := octaindex.OpenArchive(cmd.Context(), args[0], octaindex.WithArchiveLogger(c.logger))
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			out := make(map[string]bool, len(args)-1)
			for _, s := range args[1:] {
				h, err := octaindex.ParseHilbert64(s)
				if err != nil {
					return err
				}
				ok, err := a.Contains(cmd.Context(), h)
				if err != nil {
					return err
				}
				out[s] = ok
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}
