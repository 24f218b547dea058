package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/evidfuse/evidfuse/internal/domain"
	"github.com/evidfuse/evidfuse/internal/ports"
)

var _ ports.Exporter = CSVExporter{}

// CSVExporter renders the final ranking as a flat CSV table, one row per
// alternative. The richer structures (fold trace, group masses) are left to
// the JSON and XML exporters.
type CSVExporter struct{}

// Format implements ports.Exporter.
func (CSVExporter) Format() string { return FormatCSV }

// Export implements ports.Exporter.
func (CSVExporter) Export(w io.Writer, res *domain.Result) error {
	cw := csv.NewWriter(w)

	header := []string{"rank", "alternative", "score", "belief", "plausibility", "width", "best"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, row := range newDocument(res).Ranking {
		record := []string{
			strconv.Itoa(row.Rank),
			row.ID,
			formatFloat(row.Score),
			formatFloat(row.Belief),
			formatFloat(row.Plausibility),
			formatFloat(row.Width),
			strconv.FormatBool(row.Best),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row for %q: %w", row.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv output: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
