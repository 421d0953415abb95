package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/crednx/statement-engine/internal/models"
)

// JSONWriter writes the full result object, including the mismatch
// report, as indented JSON.
type JSONWriter struct{}

// WriteToFile writes the result to a JSON file at path.
func (w *JSONWriter) WriteToFile(path string, result *models.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, result)
}

// Write renders the result as JSON to out.
func (w *JSONWriter) Write(out io.Writer, result *models.Result) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
