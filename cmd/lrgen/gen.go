package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"lrgen/internal/project"
)

var genCmd = &cobra.Command{
	Use:   "gen [flags] <model.toml>...",
	Short: "Generate the symbol enum and translated actions",
	Long: `Generate the symbol-kind enumeration and the translated action,
printer and initial-action code of one or more grammar models`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGen,
}

func init() {
	addGenerateFlags(genCmd)
	genCmd.Flags().String("format", "pretty", "output format (pretty|json); defaults to [output].format of lrgen.toml")
	genCmd.Flags().String("out", "", "write output to file instead of stdout")
	genCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
}

func runGen(cmd *cobra.Command, args []string) error {
	req, err := newRunRequest(cmd, args)
	if err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	formatValue, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if !cmd.Flags().Changed("format") {
		manifest, err := project.Resolve(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", project.ManifestName, err)
		}
		formatValue = manifest.Output.Format
	}
	format, err := readFormat(formatValue, formatPretty, formatJSON)
	if err != nil {
		return err
	}

	var results []*fileResult
	if !quiet && shouldUseTUI(mode, len(args)) {
		results, err = runWithUI(cmd.Context(), "lrgen gen", req)
	} else {
		results, err = runFiles(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	diagFormat := formatPretty
	if format == formatJSON {
		err = renderJSON(&buf, results)
		diagFormat = ""
	} else {
		err = renderPretty(&buf, results, sectionEnums|sectionActions)
	}
	if err != nil {
		return err
	}
	if err := writeOutput(cmd.OutOrStdout(), outPath, buf.Bytes()); err != nil {
		return err
	}
	return finish(results, diagFormat, quiet, req.timings)
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
