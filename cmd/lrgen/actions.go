package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var actionsCmd = &cobra.Command{
	Use:   "actions [flags] <model.toml>...",
	Short: "Print translated action code per rule",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := newRunRequest(cmd, args)
		if err != nil {
			return err
		}
		quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
		if err != nil {
			return fmt.Errorf("failed to get quiet flag: %w", err)
		}
		results, err := runFiles(cmd.Context(), req)
		if err != nil {
			return err
		}
		if err := renderPretty(cmd.OutOrStdout(), results, sectionActions); err != nil {
			return err
		}
		return finish(results, formatPretty, quiet, req.timings)
	},
}

func init() {
	addGenerateFlags(actionsCmd)
}
