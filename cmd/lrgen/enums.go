package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lrgen/internal/codegen"
	"lrgen/internal/diag"
)

var enumsCmd = &cobra.Command{
	Use:   "enums [flags] <model.toml>...",
	Short: "Print the symbol-kind enum table",
	Long:  `Print the symbol-kind enum table; action code is not translated`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
		if err != nil {
			return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
		timings, err := cmd.Root().PersistentFlags().GetBool("timings")
		if err != nil {
			return fmt.Errorf("failed to get timings flag: %w", err)
		}
		quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
		if err != nil {
			return fmt.Errorf("failed to get quiet flag: %w", err)
		}

		results := make([]*fileResult, 0, len(args))
		for _, path := range args {
			res, g := loadModel(path, maxDiagnostics)
			results = append(results, res)
			if g == nil {
				continue
			}
			done := res.Timer.Track("naming")
			enums, err := codegen.Enums(g)
			if err != nil {
				done("collisions")
				diag.ReportErr(diag.BagReporter{Bag: res.Bag}, err, diag.GenDuplicateEnumName)
				res.Bag.Sort()
				continue
			}
			done(fmt.Sprintf("%d symbols", len(enums)))
			res.Output = &codegen.Output{Grammar: g.Source, Enums: enums}
		}
		if err := renderPretty(cmd.OutOrStdout(), results, sectionEnums); err != nil {
			return err
		}
		return finish(results, formatPretty, quiet, timings)
	},
}
