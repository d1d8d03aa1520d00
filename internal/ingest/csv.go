// Package ingest moves readings into the store: the queue consumer for
// realtime posts and the loader that turns per-minute CSV exports into
// hourly dataset buckets.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Row is one CSV record keyed by header name
type Row map[string]string

// Columns of the device CSV exports
const (
	ColumnDatetime    = "datetime"
	ColumnTemperature = "temperature"
	ColumnHumidity    = "humidity"
	ColumnMode        = "mode"
	ColumnSpeed       = "speed"
	ColumnOpTime      = "opTime"
	ColumnESpent      = "eSpent"
	ColumnESaved      = "eSaved"
)

// ParseCSV reads a header row followed by records. Cells are trimmed and
// cells missing from short rows read as "". Blank lines are ignored.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = h
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}
		if blank(record) {
			continue
		}

		row := make(Row, len(header))
		for i, h := range header {
			if i < len(record) {
				row[h] = strings.TrimSpace(record[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
