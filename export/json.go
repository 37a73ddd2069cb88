package export

import (
	"context"
	"encoding/json"
	"io"

	"github.com/leojohnthomas/lef-parser/lefparser"
)

// JSONExporter exports macro records to JSON format.
type JSONExporter struct {
	// Pretty enables pretty-printing with indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{
		Pretty: pretty,
	}
}

// Format returns "json".
func (e *JSONExporter) Format() string { return FormatJSON }

// Export writes the macros to the provided writer as a JSON array.
// If Pretty is true, the JSON is indented for readability.
func (e *JSONExporter) Export(ctx context.Context, macros []*lefparser.MacroRecord, w io.Writer) error {
	if len(macros) == 0 {
		_, err := w.Write([]byte("[]"))
		return err
	}

	var data []byte
	var err error
	if e.Pretty {
		data, err = json.MarshalIndent(macros, "", "  ")
	} else {
		data, err = json.Marshal(macros)
	}
	if err != nil {
		return NewExportError(FormatJSON, len(macros), err)
	}

	_, err = w.Write(data)
	if err != nil {
		return NewExportError(FormatJSON, len(macros), err)
	}

	return nil
}

// ExportStream writes macros from a channel as a JSON array, encoding
// each record as it arrives. Suitable for exports too large to hold in
// memory.
func (e *JSONExporter) ExportStream(ctx context.Context, macrosCh <-chan *lefparser.MacroRecord, w io.Writer) error {
	if _, err := w.Write([]byte("[")); err != nil {
		return NewExportError(FormatJSON, 0, err)
	}

	first := true
	count := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case macro, ok := <-macrosCh:
			if !ok {
				if _, err := w.Write([]byte("]")); err != nil {
					return NewExportError(FormatJSON, count, err)
				}
				return nil
			}

			if !first {
				if _, err := w.Write([]byte(",")); err != nil {
					return NewExportError(FormatJSON, count, err)
				}
				if e.Pretty {
					if _, err := w.Write([]byte("\n")); err != nil {
						return NewExportError(FormatJSON, count, err)
					}
				}
			}
			first = false

			data, err := e.serializeMacro(macro)
			if err != nil {
				return NewExportError(FormatJSON, count, err)
			}
			if _, err := w.Write(data); err != nil {
				return NewExportError(FormatJSON, count, err)
			}
			count++
		}
	}
}

// serializeMacro serializes a single macro record to JSON.
func (e *JSONExporter) serializeMacro(macro *lefparser.MacroRecord) ([]byte, error) {
	if e.Pretty {
		return json.MarshalIndent(macro, "  ", "  ")
	}
	return json.Marshal(macro)
}
