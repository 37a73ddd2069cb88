package main

import (
	"fmt"
	"os"

	"github.com/leojohnthomas/lef-parser/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <file.lef>",
	Short: "Export a LEF library as JSON, YAML, CSV, or msgpack",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringP("format", "f", export.FormatJSON, "Output format: json, yaml, csv, or msgpack")
	exportCmd.Flags().StringP("out", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().Bool("pretty", false, "Indent JSON output")
	exportCmd.Flags().Bool("header", true, "Include the CSV header row")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	pretty, _ := cmd.Flags().GetBool("pretty")
	header, _ := cmd.Flags().GetBool("header")

	exporter, err := export.ForFormat(format, pretty, header)
	if err != nil {
		return err
	}

	lib, err := loadLibrary(args[0], "fail")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if out == "" {
		return exporter.Export(ctx, lib.Macros, os.Stdout)
	}

	if err := export.WriteFile(ctx, out, exporter, lib.Macros); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %d macros to %s\n", len(lib.Macros), out)
	return nil
}
