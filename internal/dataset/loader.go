// Package dataset ingests tabular data from CSV or JSON sources and
// produces the ordered raw records consumed by the feature pipeline.
//
// The loader owns all value interpretation: each cell is resolved exactly
// once into a tagged feature.Value (number, string, or missing) at the
// ingestion boundary, so the pipeline never re-parses text.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/born-ml/sprout/internal/feature"
)

// ErrUnsupportedFormat reports a source locator whose format the loader
// does not understand. Supported formats are .csv and .json files and
// in-memory records.
var ErrUnsupportedFormat = errors.New("unsupported data format")

// Load reads the dataset at path and returns one RawRecord per row,
// restricted to the requested input and output columns.
//
// The format is chosen by file extension: .csv or .json. Anything else
// fails with ErrUnsupportedFormat; I/O and parse failures wrap the cause.
func Load(path string, inputCols, outputCols []string) ([]feature.RawRecord, error) {
	var parse func(io.Reader, []string, []string) ([]feature.RawRecord, error)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		parse = FromCSV
	case ".json":
		parse = FromJSON
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer file.Close()

	records, err := parse(file, inputCols, outputCols)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", path, err)
	}
	return records, nil
}

// FromCSV parses CSV data with a header row.
//
// Cells are sniffed per value: an empty cell is missing, a cell that parses
// as a float is numeric, anything else is a categorical string. Every
// requested column must appear in the header.
func FromCSV(r io.Reader, inputCols, outputCols []string) ([]feature.RawRecord, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV data is empty or missing a header row")
	}

	header := rows[0]
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	wanted := append(append([]string(nil), inputCols...), outputCols...)
	for _, name := range wanted {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("column %q not found in CSV header", name)
		}
	}

	records := make([]feature.RawRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec := make(feature.RawRecord, len(wanted))
		for _, name := range wanted {
			col := index[name]
			if col >= len(row) {
				return nil, fmt.Errorf("row %d has %d cells, header has %d", i+1, len(row), len(header))
			}
			rec[name] = sniffCell(row[col])
		}
		records = append(records, rec)
	}
	return records, nil
}

// FromJSON parses a JSON array of flat objects.
//
// JSON numbers become numeric values and JSON strings categorical ones; an
// absent key or a JSON null is missing.
func FromJSON(r io.Reader, inputCols, outputCols []string) ([]feature.RawRecord, error) {
	var rows []map[string]any
	dec := json.NewDecoder(r)
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("JSON data holds no rows")
	}
	return FromRecords(rows, inputCols, outputCols)
}

// FromRecords converts in-memory rows (the blob path) into raw records.
func FromRecords(rows []map[string]any, inputCols, outputCols []string) ([]feature.RawRecord, error) {
	wanted := append(append([]string(nil), inputCols...), outputCols...)

	records := make([]feature.RawRecord, 0, len(rows))
	for i, row := range rows {
		rec := make(feature.RawRecord, len(wanted))
		for _, name := range wanted {
			raw, ok := row[name]
			if !ok {
				rec[name] = feature.Missing()
				continue
			}
			v, err := feature.FromAny(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", i, name, err)
			}
			rec[name] = v
		}
		records = append(records, rec)
	}
	return records, nil
}

// sniffCell resolves one CSV cell into a tagged value.
func sniffCell(cell string) feature.Value {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return feature.Missing()
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return feature.Number(f)
	}
	return feature.Str(cell)
}
