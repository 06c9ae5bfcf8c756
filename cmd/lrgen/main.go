package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lrgen/internal/version"
)

// errReported marks failures whose diagnostics were already printed.
var errReported = errors.New("errors reported")

var traceCleanup = func() {}

var rootCmd = &cobra.Command{
	Use:           "lrgen",
	Short:         "LALR parser generator core",
	Long:          `lrgen names grammar symbols and translates semantic action code for generated parsers`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
		if err != nil {
			return err
		}
		useColor, err := readColor(colorFlag)
		if err != nil {
			return err
		}
		color.NoColor = !useColor

		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		traceCleanup()
	},
}

// main registers subcommands and persistent flags and executes the root
// command. Any error exits with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(enumsCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|phase|detail)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept in ring mode")

	if err := rootCmd.Execute(); err != nil {
		traceCleanup()
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "lrgen:", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func readColor(value string) (bool, error) {
	switch value {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		return isTerminal(os.Stdout), nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
}
