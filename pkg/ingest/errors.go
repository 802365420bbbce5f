package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mplm/rundash/pkg/record"
)

var (
	// ErrFetch fails a whole ingestion: the CSV resource could not be retrieved.
	ErrFetch          = errors.New("failed to fetch records")
	ErrMissingColumns = errors.New("missing required columns")
	ErrNoHeader       = errors.New("missing header row")
	ErrMalformedCSV   = errors.New("malformed csv")
	ErrInvalidID      = errors.New("invalid id")
	ErrDuplicateID    = errors.New("duplicate id")
)

type MissingColumnsError struct {
	Columns []record.Field
}

func (e *MissingColumnsError) Error() string {
	names := make([]string, 0, len(e.Columns))
	for _, column := range e.Columns {
		names = append(names, column.String())
	}

	return fmt.Sprintf("%s: %s", ErrMissingColumns, strings.Join(names, ", "))
}

func (e *MissingColumnsError) Unwrap() error {
	return ErrMissingColumns
}

// RowError describes a row that was excluded from an otherwise successful ingestion.
type RowError struct {
	// Line is the 1-based line on which the row starts.
	Line  int
	Field record.Field
	Value string
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

func (e RowError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Line   int    `json:"line"`
		Field  string `json:"field"`
		Value  string `json:"value"`
		Reason string `json:"reason"`
	}{
		Line:   e.Line,
		Field:  e.Field.String(),
		Value:  e.Value,
		Reason: e.Err.Error(),
	})
}
