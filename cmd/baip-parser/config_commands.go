package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ukaji3/baip-parser-go/internal/config"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a sample configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if target, err = config.ExpandPath(args[0]); err != nil {
					return err
				}
			}
			if _, err := os.Stat(target); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", target)
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sample configuration written to %s\n", target)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and print the resolved values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, resolved, err := config.Load(configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration %s is valid\n\n", resolved)
			fmt.Fprintln(cmd.OutOrStdout(), renderConfig(cfg))
			return nil
		},
	}

	configCmd.AddCommand(initCmd, checkCmd)
	return configCmd
}

func renderConfig(cfg *config.Config) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Option", "Value"})

	p := cfg.Parse
	tw.AppendRows([]table.Row{
		{"parse.inbound_dir", p.InboundDir},
		{"parse.archive_dir", p.ArchiveDir},
		{"parse.outbound_dir", p.OutboundDir},
		{"parse.thread_sleep", p.ThreadSleep},
		{"parse.file_filter", p.FileFilter},
		{"parse.skip_sheets", strings.Join(p.SkipSheets, ", ")},
		{"parse.cells_to_extract", strings.Join(p.CellsToExtract, ", ")},
		{"parse.cell_order", strings.Join(p.CellOrder, ", ")},
		{"parse.ignore_if_empty", strings.Join(p.IgnoreIfEmpty, ", ")},
		{"parse.workers", p.Workers},
		{"parse.word_boundary", p.WordBoundary},
		{"parse.write_headers", p.WriteHeaders},
		{"logging.level", cfg.Logging.Level},
		{"logging.format", cfg.Logging.Format},
	})
	for cell, aliases := range cfg.CellMap {
		tw.AppendRow(table.Row{"cell_map." + cell, strings.Join(aliases, ", ")})
	}
	tw.SortBy([]table.SortBy{{Name: "Option", Mode: table.Asc}})
	return tw.Render()
}
