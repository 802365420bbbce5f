// Package service implements the dashboard operations on top of the view state.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/mplm/rundash/pkg/contract"
	"github.com/mplm/rundash/pkg/ingest"
	"github.com/mplm/rundash/pkg/query"
	"github.com/mplm/rundash/pkg/record"
	"github.com/mplm/rundash/pkg/series"
	"github.com/mplm/rundash/pkg/sorter"
	"github.com/mplm/rundash/pkg/view"
)

// DefaultCategory groups the chart by model name.
const DefaultCategory = record.FieldLLMName

type DashboardService struct {
	logger  *logrus.Logger
	state   *view.State
	sorter  *sorter.Sorter
	palette series.Palette
}

func NewDashboardService(logger *logrus.Logger, state *view.State, locale language.Tag) *DashboardService {
	return &DashboardService{
		logger:  logger,
		state:   state,
		sorter:  sorter.New(locale),
		palette: series.DefaultPalette,
	}
}

func parseField(name string, fallback record.Field) (record.Field, *contract.Error) {
	if name == "" {
		return fallback, nil
	}

	field, err := record.ParseField(name)
	if err != nil {
		return "", contract.NewErrorWith(
			contract.ErrorCodeInvalidParameterValue,
			fmt.Sprintf("Invalid field %q", name),
			err,
		)
	}

	return field, nil
}

// ListRecords filters, then sorts the current record set. Without sort_by the
// ingestion order is kept.
func (d *DashboardService) ListRecords(input *contract.ListRecords) (*contract.ListRecordsResponse, *contract.Error) {
	filter, err := query.ParseFilter(input.Filter)
	if err != nil {
		return nil, contract.NewErrorWith(
			contract.ErrorCodeInvalidParameterValue,
			fmt.Sprintf("Invalid filter %q", input.Filter),
			err,
		)
	}

	snapshot := d.state.Snapshot()
	records := filter.Apply(snapshot.Records)

	response := &contract.ListRecordsResponse{
		Status:  snapshot.Status.String(),
		Skipped: snapshot.Skipped,
	}

	if input.SortBy != "" {
		key, cErr := parseField(input.SortBy, "")
		if cErr != nil {
			return nil, cErr
		}

		order := strings.ToLower(input.Order)
		if order == "" {
			order = "asc"
		}

		records = d.sorter.Sort(records, key, order != "desc")

		response.SortBy = key.String()
		response.Order = order
	}

	response.Records = records

	return response, nil
}

func (d *DashboardService) GetRecord(input *contract.GetRecord) (*contract.GetRecordResponse, *contract.Error) {
	rec, ok := d.state.Lookup(input.ID)
	if !ok {
		return nil, contract.NewError(
			contract.ErrorCodeResourceDoesNotExist,
			fmt.Sprintf("Record with id=%d not found", input.ID),
		)
	}

	selected, hasSelection := d.state.Selection()

	return &contract.GetRecordResponse{
		Record:   rec,
		Selected: hasSelection && selected.ID == rec.ID,
	}, nil
}

// GetSeries groups the current records by category. Colours follow the
// category's first-appearance index.
func (d *DashboardService) GetSeries(input *contract.GetSeries) (*contract.GetSeriesResponse, *contract.Error) {
	category, cErr := parseField(input.Category, DefaultCategory)
	if cErr != nil {
		return nil, cErr
	}

	groups := series.Group(d.state.Records(), category)

	lines := make([]contract.ChartLine, 0, len(groups))
	for _, group := range groups {
		lines = append(lines, contract.ChartLine{
			Category: group.Category,
			Label:    group.Label() + " (test)",
			Color:    d.palette.Color(group.Index),
			Points:   group.Points,
			Line:     series.Chronological(group.Points),
		})
	}

	return &contract.GetSeriesResponse{
		Category: category.String(),
		Series:   lines,
	}, nil
}

func (d *DashboardService) selection() *contract.SelectionResponse {
	selected, ok := d.state.Selection()
	if !ok {
		return &contract.SelectionResponse{}
	}

	return &contract.SelectionResponse{Selection: &selected}
}

func (d *DashboardService) GetSelection() (*contract.SelectionResponse, *contract.Error) {
	return d.selection(), nil
}

// SetSelection ignores ids that are not in the current record set and returns
// the selection unchanged.
func (d *DashboardService) SetSelection(input *contract.SetSelection) (*contract.SelectionResponse, *contract.Error) {
	if !d.state.Select(*input.ID) {
		d.logger.Debugf("Ignoring selection of unknown record %d", *input.ID)
	}

	return d.selection(), nil
}

func (d *DashboardService) ClearSelection() (*contract.SelectionResponse, *contract.Error) {
	d.state.ClearSelection()

	return d.selection(), nil
}

// Reload re-runs ingestion. A load that lost to a newer one is reported as
// superseded rather than as an error.
func (d *DashboardService) Reload(ctx context.Context) (*contract.ReloadResponse, *contract.Error) {
	result, err := d.state.Reload(ctx)

	switch {
	case errors.Is(err, view.ErrSuperseded):
		return &contract.ReloadResponse{Skipped: make([]ingest.RowError, 0), Superseded: true}, nil
	case errors.Is(err, view.ErrClosed):
		return nil, contract.NewErrorWith(contract.ErrorCodeServiceUnavailable, "Dashboard is shutting down", err)
	case errors.Is(err, ingest.ErrFetch):
		return nil, contract.NewErrorWith(contract.ErrorCodeFetchFailed, "Failed to fetch run records", err)
	case errors.Is(err, ingest.ErrMissingColumns),
		errors.Is(err, ingest.ErrNoHeader),
		errors.Is(err, ingest.ErrMalformedCSV):
		return nil, contract.NewErrorWith(contract.ErrorCodeFetchFailed, "Run records could not be parsed", err)
	case err != nil:
		return nil, contract.NewErrorWith(contract.ErrorCodeInternal, "Failed to reload run records", err)
	}

	return &contract.ReloadResponse{
		Records: len(result.Records),
		Skipped: result.Skipped,
	}, nil
}
