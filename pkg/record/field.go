package record

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
)

// Field names a column of a run record, spelled exactly as in the CSV header.
type Field string

const (
	FieldID                 Field = "id"
	FieldLLMName            Field = "llm_name"
	FieldDatasetSummaryCode Field = "dataset_summary_code"
	FieldDatasetSummary     Field = "dataset_summary"
	FieldTrainCode          Field = "train_code"
	FieldModelName          Field = "model_name"
	FieldModelPath          Field = "model_path"
	FieldAccuracyVal        Field = "accuracy_val"
	FieldAccuracyTest       Field = "accuracy_test"
	FieldCreatedAt          Field = "created_at"
)

// Fields lists every record field in canonical header order.
//
//nolint:gochecknoglobals
var Fields = []Field{
	FieldID,
	FieldLLMName,
	FieldDatasetSummaryCode,
	FieldDatasetSummary,
	FieldTrainCode,
	FieldModelName,
	FieldModelPath,
	FieldAccuracyVal,
	FieldAccuracyTest,
	FieldCreatedAt,
}

// Kind is the value type of a field, which decides how it is parsed and compared.
type Kind int

const (
	Integer Kind = iota
	Text
	Numeric
	Timestamp
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Text:
		return "text"
	case Numeric:
		return "numeric"
	case Timestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

var ErrUnknownField = errors.New("unknown record field")

func (f Field) String() string {
	return string(f)
}

func (f Field) Kind() Kind {
	switch f {
	case FieldID:
		return Integer
	case FieldAccuracyVal, FieldAccuracyTest:
		return Numeric
	case FieldCreatedAt:
		return Timestamp
	default:
		return Text
	}
}

func (f Field) Valid() bool {
	for _, field := range Fields {
		if f == field {
			return true
		}
	}

	return false
}

// ParseField resolves a user supplied field name. Besides the exact header
// spelling it accepts camel and pascal case variants such as "accuracyTest".
func ParseField(name string) (Field, error) {
	field := Field(strcase.ToSnake(strings.TrimSpace(name)))
	if !field.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	return field, nil
}
