package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iwpnd/octaindex"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "OCTAINDEX"

// cli carries the resolved global settings into subcommands.
type cli struct {
	v      *viper.Viper
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "octaindex",
		Short:         "Inspect and walk BCC lattice cell identifiers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.logger != nil {
				_ = c.logger.Sync() //nolint:errcheck
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "warn", "Log level: debug, info, warn, error")
	flags.Bool("log-json", false, "Emit logs as JSON")
	flags.Int("workers", 0, "Batch worker goroutines (default: GOMAXPROCS)")
	_ = c.v.BindPFlags(flags) //nolint:errcheck

	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	rootCmd.AddCommand(
		newEncodeCmd(c),
		newCellCmd(c),
		newInspectCmd(c),
		newNeighborsCmd(c),
		newRingCmd(c),
		newPathCmd(c),
		newArchiveCmd(c),
	)
	return rootCmd
}

func (c *cli) init() error {
	logger, err := octaindex.NewLogger(c.v.GetString("log-level"), c.v.GetBool("log-json"))
	if err != nil {
		return err
	}
	c.logger = logger
	c.logger.Debug("cli initialized",
		zap.Stringer("kernel", octaindex.ActiveKernel()),
		zap.Bool("kernel_overridden", octaindex.KernelOverridden()),
	)
	return nil
}

func (c *cli) engine() *octaindex.Engine {
	options := []octaindex.EngineOption{octaindex.WithLogger(c.logger)}
	if w := c.v.GetInt("workers"); w > 0 {
		options = append(options, octaindex.WithWorkers(w))
	}
	return octaindex.NewEngine(options...)
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
