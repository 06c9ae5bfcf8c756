package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <model.toml>...",
	Short: "Run generation and report diagnostics only",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	addGenerateFlags(checkCmd)
	checkCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json|short)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	req, err := newRunRequest(cmd, args)
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	formatValue, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := readFormat(formatValue, formatPretty, formatJSON, formatShort)
	if err != nil {
		return err
	}

	results, err := runFiles(cmd.Context(), req)
	if err != nil {
		return err
	}
	if !quiet {
		for _, r := range results {
			if r.Failed() {
				continue
			}
			cached := ""
			if r.Output.Cached {
				cached = ", cached"
			}
			fmt.Fprintf(os.Stderr, "ok %s (%d symbols, %d actions%s)\n", r.Path, len(r.Output.Enums), len(r.Output.Actions), cached)
		}
	}
	return finish(results, format, quiet, req.timings)
}
