// Package export provides macro record exporters for various formats.
//
// # Export Formats
//
// The export package provides exporters for:
//
//   - JSON: array of macro records, with optional pretty-printing
//   - YAML: document with one entry per macro
//   - CSV: one flattened row per macro with an optional header row
//   - Msgpack: compact binary encoding of the macro array
//
// # Usage
//
// Exporters share the Exporter interface and write to any io.Writer:
//
//	exporter := export.NewJSONExporter(true)
//	err := exporter.Export(ctx, lib.Macros, os.Stdout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// ForFormat resolves an exporter from a format name, for callers driven
// by flags or request parameters:
//
//	exporter, err := export.ForFormat("csv", false, true)
//
// # Streaming
//
// The JSON and CSV exporters additionally support ExportStream, which
// consumes macros from a channel and writes them as they arrive instead
// of holding the whole library in memory.
//
// # Error Handling
//
// Exporters return *ExportError when encoding or writing fails.
package export
