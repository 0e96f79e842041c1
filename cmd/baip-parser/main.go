// Package main provides the CLI entry point for baip-parser.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ukaji3/baip-parser-go/internal/config"
	"github.com/ukaji3/baip-parser-go/internal/daemon"
	"github.com/ukaji3/baip-parser-go/internal/logging"
)

const (
	envConfig   = "BAIP_PARSER_CONFIG"
	envLogLevel = "BAIP_PARSER_LOG_LEVEL"
)

var (
	configPath string
	filename   string
	inboundDir string
	dryRun     bool
	batchRun   bool
	logLevel   string
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: load .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "baip-parser",
		Short: "Extract cells from Excel workbooks into delimited files",
		Long: `baip-parser watches an inbound directory for Excel workbooks, extracts
configured cells from every sheet and writes one delimited row per sheet.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         run,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", os.Getenv(envConfig), "Configuration file (default: ./baip-parser.toml or ~/.config/baip-parser/config.toml)")
	flags.StringVar(&logLevel, "log-level", os.Getenv(envLogLevel), "Override logging.level")

	rootCmd.Flags().StringVarP(&filename, "file", "f", "", "Process a single workbook and exit")
	rootCmd.Flags().StringVarP(&inboundDir, "inbound-dir", "i", "", "Override parse.inbound_dir and exit after one pass")
	rootCmd.Flags().BoolVarP(&dryRun, "dry", "d", false, "Report rows without writing or archiving")
	rootCmd.Flags().BoolVarP(&batchRun, "batch", "b", false, "Run a single iteration and exit")

	rootCmd.AddCommand(newConfigCommand())
	return rootCmd
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, resolved, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	logger, err := logging.New(logging.Options{
		Level:  level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	logger.Info().Str("config", resolved).Msg("configuration loaded")

	if filename != "" {
		if _, err := os.Stat(filename); err != nil {
			return fmt.Errorf("file not found: %s", filename)
		}
	}

	d, err := daemon.New(cfg, daemon.Options{
		Filename:   filename,
		InboundDir: inboundDir,
		Dry:        dryRun,
		Batch:      batchRun,
		Stdout:     cmd.OutOrStdout(),
	}, logger)
	if err != nil {
		return err
	}
	return d.Run(cmd.Context())
}
