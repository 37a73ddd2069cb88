package export

import (
	"context"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/leojohnthomas/lef-parser/lefparser"
)

// YAMLExporter exports macro records to a YAML document.
type YAMLExporter struct{}

// NewYAMLExporter creates a new YAML exporter.
func NewYAMLExporter() *YAMLExporter {
	return &YAMLExporter{}
}

// Format returns "yaml".
func (e *YAMLExporter) Format() string { return FormatYAML }

// Export writes the macros to the provided writer as a YAML sequence
// with one entry per macro.
func (e *YAMLExporter) Export(ctx context.Context, macros []*lefparser.MacroRecord, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(macros); err != nil {
		return NewExportError(FormatYAML, len(macros), err)
	}
	if err := enc.Close(); err != nil {
		return NewExportError(FormatYAML, len(macros), err)
	}
	return nil
}
