package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arloliu/pcdio"
	"github.com/arloliu/pcdio/internal/config"
)

// app carries state shared by the subcommands once flags and the config file are merged.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "pcdtool",
		Short: "Inspect and convert PCD point cloud files",
		Long: `pcdtool reads PCD files in ascii, binary and binary_compressed encoding.
It prints headers and per-field statistics and converts between encodings.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "YAML config file")
	flags.String("compression", "", "codec for binary_compressed bodies: lzf, none, zstd, s2, lz4")
	flags.Bool("parallel", true, "decode binary bodies of mapped files in parallel")
	flags.Int("workers", 0, "parallel decoder workers (default from config)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text or json")

	root.AddCommand(newInfoCmd(a), newStatsCmd(a), newConvertCmd(a))

	return root
}

// setup loads the config file and lets explicitly set flags override it.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()

	cfg := config.DefaultConfig()
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if flags.Changed("compression") {
		cfg.Compression, _ = flags.GetString("compression")
	}
	if flags.Changed("parallel") {
		cfg.Parallel, _ = flags.GetBool("parallel")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format, _ = flags.GetString("log-format")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	level, _ := cfg.LogLevel()
	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), cfg.Logging.Format, level)

	return nil
}

func newLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// options converts the merged settings to reader and writer options.
func (a *app) options() []pcdio.Option {
	ct, _ := a.cfg.CompressionType()

	return []pcdio.Option{
		pcdio.WithLogger(a.logger),
		pcdio.WithCompression(ct),
		pcdio.WithParallel(a.cfg.Parallel),
		pcdio.WithWorkers(a.cfg.Workers),
	}
}
