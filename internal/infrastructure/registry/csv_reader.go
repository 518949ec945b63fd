package registry

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"RegistryLinker/internal/dataset"
	"RegistryLinker/internal/domain"
	"RegistryLinker/pkg/normalize"
)

// CSVReader reads a registry export in CSV form. Column names are mapped
// through request options:
//
//	nameColumn        required, the drug name column
//	identifierColumn  optional standardized code column
//	dateColumn        optional approval/designation date (passthrough)
//	indicationColumn  optional indication (passthrough)
//	sponsorColumn     optional sponsor (passthrough)
//	explode           "true" splits combination products into one record
//	                  per active ingredient
type CSVReader struct{}

// NewCSVReader builds the CSV dataset strategy.
func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

var _ dataset.Reader = (*CSVReader)(nil)

// Name identifies the strategy inside the registry.
func (c *CSVReader) Name() string {
	return "csv"
}

// Read parses the export and emits normalized records in file order.
func (c *CSVReader) Read(ctx context.Context, req dataset.Request) ([]domain.Record, error) {
	nameColumn := req.Options["nameColumn"]
	if nameColumn == "" {
		return nil, fmt.Errorf("dataset %s: nameColumn option is required", req.Name)
	}

	file, err := os.Open(req.Location)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", req.Name, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", req.Name, err)
	}
	columns := indexColumns(header)

	nameIdx, ok := columns[nameColumn]
	if !ok {
		return nil, fmt.Errorf("dataset %s: column %q not found", req.Name, nameColumn)
	}

	explode := req.Options["explode"] == "true"

	var records []domain.Record
	next := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row of %s: %w", req.Name, err)
		}

		raw := strings.TrimSpace(cell(row, nameIdx))
		if raw == "" {
			continue
		}

		metadata := passthrough(row, columns, req.Options)
		identifier := strings.TrimSpace(cell(row, optionalIndex(columns, req.Options, "identifierColumn")))

		names := []string{raw}
		if explode {
			names = normalize.Split(raw)
		}

		for _, name := range names {
			records = append(records, domain.Record{
				Index:         next,
				RawName:       name,
				CanonicalName: normalize.Name(name),
				Identifier:    identifier,
				Side:          req.Side,
				Metadata:      metadata,
			})
			next++
		}
	}

	return records, nil
}

func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.TrimSpace(h)] = i
	}
	return columns
}

func optionalIndex(columns map[string]int, options map[string]string, key string) int {
	name := options[key]
	if name == "" {
		return -1
	}
	if idx, ok := columns[name]; ok {
		return idx
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func passthrough(row []string, columns map[string]int, options map[string]string) map[string]string {
	metadata := map[string]string{}
	for option, field := range map[string]string{
		"dateColumn":       "approval_date",
		"indicationColumn": "indication",
		"sponsorColumn":    "sponsor",
	} {
		if v := strings.TrimSpace(cell(row, optionalIndex(columns, options, option))); v != "" {
			metadata[field] = v
		}
	}
	return metadata
}
