package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"RegistryLinker/internal/domain"
	"RegistryLinker/internal/ports"
)

// CSVWriter renders the final overlap table to a CSV file, one row per
// match with both names, the score bundle, the origin, and the
// passthrough metadata the downstream analysis expects.
type CSVWriter struct {
	path string
}

var _ ports.ReportSink = (*CSVWriter)(nil)

// NewCSVWriter targets an output file; parent directories are created.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

var header = []string{
	"Left Drug Name", "Right Drug Name",
	"Similarity Score", "Token Score", "Ratio Score", "Match Type",
	"Left Approval Date", "Right Approval Date",
	"Left Indication", "Right Indication",
}

// Write emits the match table in result order.
func (w *CSVWriter) Write(ctx context.Context, result *domain.Result) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("create output %s: %w", w.path, err)
	}
	defer file.Close()

	out := csv.NewWriter(file)
	if err := out.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, m := range result.Matches {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := []string{
			m.Left.RawName,
			m.Right.RawName,
			strconv.FormatFloat(m.Scores.Alignment, 'f', 4, 64),
			strconv.FormatFloat(m.Scores.TokenSet, 'f', 1, 64),
			strconv.FormatFloat(m.Scores.EditRatio, 'f', 1, 64),
			string(m.Origin),
			m.Left.Metadata["approval_date"],
			m.Right.Metadata["approval_date"],
			m.Left.Metadata["indication"],
			m.Right.Metadata["indication"],
		}
		if err := out.Write(row); err != nil {
			return fmt.Errorf("write match row: %w", err)
		}
	}

	out.Flush()
	if err := out.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}
