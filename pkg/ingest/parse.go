// Package ingest turns CSV run exports into typed records.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mplm/rundash/pkg/record"
)

// RequiredColumns must be named by the header. The remaining record fields are
// display-only and default to "" when absent.
//
//nolint:gochecknoglobals
var RequiredColumns = []record.Field{
	record.FieldID,
	record.FieldLLMName,
	record.FieldAccuracyVal,
	record.FieldAccuracyTest,
	record.FieldCreatedAt,
}

// Result is a complete ingestion: every accepted record plus the rows that were skipped.
type Result struct {
	Records []record.Record
	Skipped []RowError
}

type columns map[record.Field]int

func mapHeader(header []string) (columns, error) {
	mapping := make(columns, len(record.Fields))

	for index, name := range header {
		if index == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}

		field := record.Field(strings.TrimSpace(name))
		if !field.Valid() {
			continue
		}

		if _, ok := mapping[field]; !ok {
			mapping[field] = index
		}
	}

	missing := make([]record.Field, 0)
	for _, field := range RequiredColumns {
		if _, ok := mapping[field]; !ok {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	return mapping, nil
}

func (c columns) cell(row []string, field record.Field) string {
	index, ok := c[field]
	if !ok || index >= len(row) {
		return ""
	}

	return row[index]
}

func (c columns) decode(row []string, line int) (record.Record, *RowError) {
	rawID := c.cell(row, record.FieldID)

	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return record.Record{}, &RowError{
			Line:  line,
			Field: record.FieldID,
			Value: rawID,
			Err:   fmt.Errorf("%w: %w", ErrInvalidID, err),
		}
	}

	rawCreatedAt := c.cell(row, record.FieldCreatedAt)

	createdAt, err := record.NormalizeTimestamp(rawCreatedAt)
	if err != nil {
		return record.Record{}, &RowError{
			Line:  line,
			Field: record.FieldCreatedAt,
			Value: rawCreatedAt,
			Err:   err,
		}
	}

	return record.Record{
		ID:                 id,
		LLMName:            c.cell(row, record.FieldLLMName),
		DatasetSummaryCode: c.cell(row, record.FieldDatasetSummaryCode),
		DatasetSummary:     c.cell(row, record.FieldDatasetSummary),
		TrainCode:          c.cell(row, record.FieldTrainCode),
		ModelName:          c.cell(row, record.FieldModelName),
		ModelPath:          c.cell(row, record.FieldModelPath),
		AccuracyVal:        record.ParseMetric(c.cell(row, record.FieldAccuracyVal)),
		AccuracyTest:       record.ParseMetric(c.cell(row, record.FieldAccuracyTest)),
		CreatedAt:          createdAt,
	}, nil
}

func isBlank(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}

	return true
}

// Parse reads CSV with a header row. Rows with a bad id, an unparseable
// created_at or an id seen earlier in the input are reported in Result.Skipped;
// unparseable accuracies become NaN and the row is kept.
func Parse(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}

		return nil, fmt.Errorf("%w: %w", ErrMalformedCSV, err)
	}

	mapping, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Records: make([]record.Record, 0),
		Skipped: make([]RowError, 0),
	}
	seen := make(map[int64]struct{})

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedCSV, err)
		}

		if isBlank(row) {
			continue
		}

		line, _ := reader.FieldPos(0)

		rec, rowErr := mapping.decode(row, line)
		if rowErr != nil {
			result.Skipped = append(result.Skipped, *rowErr)
			continue
		}

		if _, ok := seen[rec.ID]; ok {
			result.Skipped = append(result.Skipped, RowError{
				Line:  line,
				Field: record.FieldID,
				Value: strconv.FormatInt(rec.ID, 10),
				Err:   ErrDuplicateID,
			})

			continue
		}

		seen[rec.ID] = struct{}{}
		result.Records = append(result.Records, rec)
	}

	return result, nil
}

func ParseString(text string) (*Result, error) {
	return Parse(strings.NewReader(text))
}
