// Package record defines the run record produced by every training run and
// the catalogue of its fields.
package record

import (
	"strconv"
	"time"
)

// Record is one logged training/evaluation run. Records are treated as
// immutable values once ingested.
type Record struct {
	ID                 int64  `json:"id"`
	LLMName            string `json:"llm_name"`
	DatasetSummaryCode string `json:"dataset_summary_code"`
	DatasetSummary     string `json:"dataset_summary"`
	TrainCode          string `json:"train_code"`
	ModelName          string `json:"model_name"`
	ModelPath          string `json:"model_path"`
	AccuracyVal        Metric `json:"accuracy_val"`
	AccuracyTest       Metric `json:"accuracy_test"`
	// CreatedAt is stored in CanonicalLayout.
	CreatedAt string `json:"created_at"`
}

func (r Record) Time() (time.Time, error) {
	return ParseTimestamp(r.CreatedAt)
}

// Text returns the value of a text field, or "" for fields of another kind.
func (r Record) Text(field Field) string {
	switch field {
	case FieldLLMName:
		return r.LLMName
	case FieldDatasetSummaryCode:
		return r.DatasetSummaryCode
	case FieldDatasetSummary:
		return r.DatasetSummary
	case FieldTrainCode:
		return r.TrainCode
	case FieldModelName:
		return r.ModelName
	case FieldModelPath:
		return r.ModelPath
	default:
		return ""
	}
}

// Number returns the value of a numeric field, or NaN for fields of another kind.
func (r Record) Number(field Field) Metric {
	switch field {
	case FieldAccuracyVal:
		return r.AccuracyVal
	case FieldAccuracyTest:
		return r.AccuracyTest
	default:
		return NaN()
	}
}

// Missing reports whether the record has no usable value for field.
// Empty text, NaN metrics and unparseable timestamps count as missing.
func (r Record) Missing(field Field) bool {
	switch field.Kind() {
	case Integer:
		return false
	case Numeric:
		return r.Number(field).IsNaN()
	case Timestamp:
		_, err := r.Time()
		return err != nil
	default:
		return r.Text(field) == ""
	}
}

// Format renders any field as text, the way it is written to CSV.
func (r Record) Format(field Field) string {
	switch field.Kind() {
	case Integer:
		return strconv.FormatInt(r.ID, 10)
	case Numeric:
		return r.Number(field).String()
	case Timestamp:
		return r.CreatedAt
	default:
		return r.Text(field)
	}
}
