package export

import (
	"context"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/leojohnthomas/lef-parser/lefparser"
)

// MsgpackExporter exports macro records in MessagePack format, a compact
// binary alternative to the JSON export.
type MsgpackExporter struct{}

// NewMsgpackExporter creates a new MessagePack exporter.
func NewMsgpackExporter() *MsgpackExporter {
	return &MsgpackExporter{}
}

// Format returns "msgpack".
func (e *MsgpackExporter) Format() string { return FormatMsgpack }

// Export writes the macros to the provided writer as a MessagePack
// array.
func (e *MsgpackExporter) Export(ctx context.Context, macros []*lefparser.MacroRecord, w io.Writer) error {
	data, err := msgpack.Marshal(macros)
	if err != nil {
		return NewExportError(FormatMsgpack, len(macros), err)
	}
	if _, err := w.Write(data); err != nil {
		return NewExportError(FormatMsgpack, len(macros), err)
	}
	return nil
}
