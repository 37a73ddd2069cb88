package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leojohnthomas/lef-parser/lefparser"
)

// WriteFile exports the macros to a file. Output goes to a temporary
// sibling first and is renamed into place, so readers never observe a
// partially written file.
func WriteFile(ctx context.Context, path string, exporter Exporter, macros []*lefparser.MacroRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tempPath := path + ".exporting"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := exporter.Export(ctx, macros, f); err != nil {
		f.Close()
		os.Remove(tempPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write output file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
