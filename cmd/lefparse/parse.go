package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leojohnthomas/lef-parser/lefparser"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.lef>",
	Short: "Parse a LEF library and summarize its contents",
	Long:  "Parse a LEF macro library, report macro, pin, and rectangle counts, and optionally dump the parsed records.",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("on-error", "fail", "Error policy: fail or skip")
	parseCmd.Flags().Bool("dump", false, "Print each parsed macro to stdout")
	parseCmd.Flags().BoolP("quiet", "q", false, "Suppress the summary")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	onError, _ := cmd.Flags().GetString("on-error")
	dump, _ := cmd.Flags().GetBool("dump")
	quiet, _ := cmd.Flags().GetBool("quiet")

	lib, err := loadLibrary(args[0], onError)
	if err != nil {
		return err
	}

	if dump {
		for _, m := range lib.Macros {
			fmt.Println(m.String())
		}
	}

	if !quiet {
		fmt.Fprintf(os.Stderr, "%s: %d macros, %d pins, %d rects\n",
			filepath.Base(args[0]), len(lib.Macros), lib.PinCount(), lib.RectCount())
		for _, perr := range lib.Errors {
			fmt.Fprintf(os.Stderr, "  skipped macro: %v\n", perr)
		}
	}
	return nil
}

// loadLibrary reads and parses a LEF file under the named error policy.
func loadLibrary(path, onError string) (*lefparser.Library, error) {
	opts, err := parseOptions(onError)
	if err != nil {
		return nil, err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading library file: %w", err)
	}

	lib, err := lefparser.ParseWithOptions(src, opts)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return lib, nil
}

func parseOptions(onError string) (lefparser.Options, error) {
	switch onError {
	case "fail":
		return lefparser.Options{OnError: lefparser.FailFast}, nil
	case "skip":
		return lefparser.Options{OnError: lefparser.SkipMacro}, nil
	default:
		return lefparser.Options{}, fmt.Errorf("unknown error policy %q (want fail or skip)", onError)
	}
}

// libraryName derives a registry/snapshot name from a LEF file path.
func libraryName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
