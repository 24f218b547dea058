package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/evidfuse/evidfuse/internal/domain"
	"github.com/evidfuse/evidfuse/internal/ports"
)

var _ ports.Exporter = JSONExporter{}

// JSONExporter renders a result as a single indented JSON document.
type JSONExporter struct{}

// Format implements ports.Exporter.
func (JSONExporter) Format() string { return FormatJSON }

// Export implements ports.Exporter.
func (JSONExporter) Export(w io.Writer, res *domain.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newDocument(res)); err != nil {
		return fmt.Errorf("encoding result as json: %w", err)
	}
	return nil
}
