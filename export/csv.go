package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/leojohnthomas/lef-parser/lefparser"
)

// CSVExporter exports macro records to CSV format, one row per macro.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{
		IncludeHeader: includeHeader,
	}
}

// Format returns "csv".
func (e *CSVExporter) Format() string { return FormatCSV }

// Export writes the macros to the provided writer in CSV format. Nested
// structures are flattened: list fields become space-separated strings,
// pin and rectangle detail collapses to counts.
func (e *CSVExporter) Export(ctx context.Context, macros []*lefparser.MacroRecord, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		if err := writer.Write(e.headerRow()); err != nil {
			return NewExportError(FormatCSV, len(macros), err)
		}
	}

	for _, macro := range macros {
		if err := writer.Write(e.macroToRow(macro)); err != nil {
			return NewExportError(FormatCSV, len(macros), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return NewExportError(FormatCSV, len(macros), err)
	}
	return nil
}

// ExportStream writes macros from a channel in CSV format, one row at a
// time. The writer flushes periodically so long exports make visible
// progress.
func (e *CSVExporter) ExportStream(ctx context.Context, macrosCh <-chan *lefparser.MacroRecord, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		if err := writer.Write(e.headerRow()); err != nil {
			return NewExportError(FormatCSV, 0, err)
		}
	}

	count := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case macro, ok := <-macrosCh:
			if !ok {
				writer.Flush()
				if err := writer.Error(); err != nil {
					return NewExportError(FormatCSV, count, err)
				}
				return nil
			}

			if err := writer.Write(e.macroToRow(macro)); err != nil {
				return NewExportError(FormatCSV, count, err)
			}
			count++

			if count%100 == 0 {
				writer.Flush()
				if err := writer.Error(); err != nil {
					return NewExportError(FormatCSV, count, err)
				}
			}
		}
	}
}

// headerRow returns the CSV header row.
func (e *CSVExporter) headerRow() []string {
	return []string{
		"macro", "class",
		"origin_x", "origin_y", "width", "height",
		"symmetry", "site", "foreign",
		"pins", "obs_layers", "rects",
	}
}

// macroToRow converts a macro record to a CSV row.
func (e *CSVExporter) macroToRow(macro *lefparser.MacroRecord) []string {
	originX, originY := "", ""
	if macro.Origin != nil {
		originX = fmt.Sprintf("%g", macro.Origin.X)
		originY = fmt.Sprintf("%g", macro.Origin.Y)
	}

	width, height := "", ""
	if macro.Size != nil {
		width = fmt.Sprintf("%g", macro.Size.Width)
		height = fmt.Sprintf("%g", macro.Size.Height)
	}

	obsLayers := 0
	if macro.Obstruction != nil {
		obsLayers = len(macro.Obstruction.Layers)
	}

	return []string{
		macro.Name,
		macro.Class,
		originX,
		originY,
		width,
		height,
		strings.Join(macro.Symmetry, " "),
		macro.Site,
		strings.Join(macro.Foreign, " "),
		fmt.Sprintf("%d", len(macro.Pins)),
		fmt.Sprintf("%d", obsLayers),
		fmt.Sprintf("%d", macro.RectCount()),
	}
}
