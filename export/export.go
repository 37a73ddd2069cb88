package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/leojohnthomas/lef-parser/lefparser"
)

// Format names accepted by ForFormat.
const (
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatCSV     = "csv"
	FormatMsgpack = "msgpack"
)

// Exporter writes macro records to a writer in one output format.
type Exporter interface {
	// Format returns the short format name ("json", "csv", ...).
	Format() string

	// Export writes the macros to w.
	Export(ctx context.Context, macros []*lefparser.MacroRecord, w io.Writer) error
}

// ForFormat returns the exporter for a format name. pretty applies to
// JSON output, includeHeader to CSV output.
func ForFormat(format string, pretty, includeHeader bool) (Exporter, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return NewJSONExporter(pretty), nil
	case FormatYAML:
		return NewYAMLExporter(), nil
	case FormatCSV:
		return NewCSVExporter(includeHeader), nil
	case FormatMsgpack:
		return NewMsgpackExporter(), nil
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}

// ExportError represents an error during macro export.
type ExportError struct {
	Format     string // export format ("json", "csv", etc.)
	MacroCount int    // number of macros written or being exported
	Cause      error  // underlying error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [format=%s, macro_count=%d]: %v", e.Format, e.MacroCount, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new ExportError.
func NewExportError(format string, macroCount int, cause error) *ExportError {
	return &ExportError{
		Format:     format,
		MacroCount: macroCount,
		Cause:      cause,
	}
}
