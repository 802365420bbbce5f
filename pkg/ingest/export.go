package ingest

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/mplm/rundash/pkg/record"
)

// WriteCSV writes records with the full header in canonical field order, so
// the output can be read back by Parse.
func WriteCSV(w io.Writer, records []record.Record) error {
	writer := csv.NewWriter(w)

	header := make([]string, 0, len(record.Fields))
	for _, field := range record.Fields {
		header = append(header, field.String())
	}

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	row := make([]string, len(record.Fields))
	for _, rec := range records {
		for index, field := range record.Fields {
			row[index] = rec.Format(field)
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", rec.ID, err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	return nil
}
