package contract

import (
	"context"

	"github.com/mplm/rundash/pkg/ingest"
	"github.com/mplm/rundash/pkg/record"
	"github.com/mplm/rundash/pkg/series"
)

type ListRecords struct {
	SortBy string `query:"sort_by" validate:"omitempty,recordField"`
	Order  string `query:"order"   validate:"omitempty,oneof=asc desc ASC DESC"`
	Filter string `query:"filter"`
}

type ListRecordsResponse struct {
	Status  string            `json:"status"`
	SortBy  string            `json:"sort_by,omitempty"`
	Order   string            `json:"order,omitempty"`
	Records []record.Record   `json:"records"`
	Skipped []ingest.RowError `json:"skipped"`
}

type GetRecord struct {
	ID int64 `params:"id" validate:"gte=0"`
}

type GetRecordResponse struct {
	Record   record.Record `json:"record"`
	Selected bool          `json:"selected"`
}

type GetSeries struct {
	Category string `query:"category" validate:"omitempty,recordField"`
}

// ChartLine is one series ready to draw. Line holds the points in time order
// with NaN values removed.
type ChartLine struct {
	Category string         `json:"category"`
	Label    string         `json:"label"`
	Color    string         `json:"color"`
	Points   []series.Point `json:"points"`
	Line     []series.Point `json:"line"`
}

type GetSeriesResponse struct {
	Category string      `json:"category"`
	Series   []ChartLine `json:"series"`
}

type SetSelection struct {
	ID *int64 `json:"id" validate:"required"`
}

type SelectionResponse struct {
	Selection *record.Record `json:"selection"`
}

type ReloadResponse struct {
	Records    int               `json:"records"`
	Skipped    []ingest.RowError `json:"skipped"`
	Superseded bool              `json:"superseded"`
}

type DashboardService interface {
	ListRecords(input *ListRecords) (*ListRecordsResponse, *Error)
	GetRecord(input *GetRecord) (*GetRecordResponse, *Error)
	GetSeries(input *GetSeries) (*GetSeriesResponse, *Error)
	GetSelection() (*SelectionResponse, *Error)
	SetSelection(input *SetSelection) (*SelectionResponse, *Error)
	ClearSelection() (*SelectionResponse, *Error)
	Reload(ctx context.Context) (*ReloadResponse, *Error)
}
