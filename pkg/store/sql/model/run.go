package model

import (
	"errors"
	"fmt"

	"github.com/mplm/rundash/pkg/record"
	"github.com/mplm/rundash/pkg/utils"
)

// Run mapped from table <runs>.
type Run struct {
	ID                 *int64   `db:"id"                   gorm:"column:id;primaryKey;autoIncrement:false"`
	LLMName            *string  `db:"llm_name"             gorm:"column:llm_name"`
	DatasetSummaryCode *string  `db:"dataset_summary_code" gorm:"column:dataset_summary_code"`
	DatasetSummary     *string  `db:"dataset_summary"      gorm:"column:dataset_summary"`
	TrainCode          *string  `db:"train_code"           gorm:"column:train_code"`
	ModelName          *string  `db:"model_name"           gorm:"column:model_name"`
	ModelPath          *string  `db:"model_path"           gorm:"column:model_path"`
	AccuracyVal        *float64 `db:"accuracy_val"         gorm:"column:accuracy_val"`
	AccuracyTest       *float64 `db:"accuracy_test"        gorm:"column:accuracy_test"`
	CreatedAt          *string  `db:"created_at"           gorm:"column:created_at"`
}

func (Run) TableName() string {
	return "runs"
}

func metricOf(value *float64) record.Metric {
	if value == nil {
		return record.NaN()
	}

	return record.Metric(*value)
}

// ToRecord converts a row. A NULL or unparseable created_at is an error; NULL
// accuracies become NaN.
func (r Run) ToRecord() (record.Record, error) {
	if r.ID == nil {
		return record.Record{}, errors.New("run without id")
	}

	if r.CreatedAt == nil {
		return record.Record{}, fmt.Errorf("%w: NULL", record.ErrInvalidTimestamp)
	}

	createdAt, err := record.NormalizeTimestamp(*r.CreatedAt)
	if err != nil {
		return record.Record{}, err
	}

	return record.Record{
		ID:                 *r.ID,
		LLMName:            utils.ValueOr(r.LLMName, ""),
		DatasetSummaryCode: utils.ValueOr(r.DatasetSummaryCode, ""),
		DatasetSummary:     utils.ValueOr(r.DatasetSummary, ""),
		TrainCode:          utils.ValueOr(r.TrainCode, ""),
		ModelName:          utils.ValueOr(r.ModelName, ""),
		ModelPath:          utils.ValueOr(r.ModelPath, ""),
		AccuracyVal:        metricOf(r.AccuracyVal),
		AccuracyTest:       metricOf(r.AccuracyTest),
		CreatedAt:          createdAt,
	}, nil
}
