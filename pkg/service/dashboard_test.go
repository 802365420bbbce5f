package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mplm/rundash/pkg/contract"
	"github.com/mplm/rundash/pkg/ingest"
	"github.com/mplm/rundash/pkg/record"
	"github.com/mplm/rundash/pkg/service"
	"github.com/mplm/rundash/pkg/utils"
	"github.com/mplm/rundash/pkg/view"
)

const runsCSV = `id,llm_name,accuracy_val,accuracy_test,created_at
1,gpt,0.80,0.78,2024-01-01
2,claude,0.75,0.77,2024-01-02
3,gpt,0.83,0.81,2024-01-03
4,gpt,0.90,0.90,not-a-date
5,,0.60,n/a,2024-01-04
`

func newService(t *testing.T, loader ingest.Loader, options view.Options) *service.DashboardService {
	t.Helper()

	logger, _ := test.NewNullLogger()
	state := view.New(logger, loader, options)

	t.Cleanup(state.Close)

	dashboard := service.NewDashboardService(logger, state, language.English)

	_, cErr := dashboard.Reload(context.Background())
	require.Nil(t, cErr)

	return dashboard
}

func ids(records []record.Record) []int64 {
	out := make([]int64, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.ID)
	}

	return out
}

func TestListRecords(t *testing.T) {
	t.Parallel()

	dashboard := newService(t, &ingest.TextSource{Text: runsCSV}, view.Options{})

	scenarios := []struct {
		name     string
		input    contract.ListRecords
		expected []int64
	}{
		{"ingestion order", contract.ListRecords{}, []int64{1, 2, 3, 5}},
		{"accuracy descending", contract.ListRecords{SortBy: "accuracy_test", Order: "desc"}, []int64{3, 1, 2, 5}},
		{"camel case key", contract.ListRecords{SortBy: "accuracyTest", Order: "ASC"}, []int64{2, 1, 3, 5}},
		{"empty text last", contract.ListRecords{SortBy: "llm_name", Order: "desc"}, []int64{1, 3, 2, 5}},
		{"filtered", contract.ListRecords{Filter: "llm_name = 'gpt'", SortBy: "created_at", Order: "desc"}, []int64{3, 1}},
	}

	for _, scenario := range scenarios {
		scenario := scenario
		t.Run(scenario.name, func(t *testing.T) {
			t.Parallel()

			response, cErr := dashboard.ListRecords(&scenario.input)
			require.Nil(t, cErr)
			assert.Equal(t, scenario.expected, ids(response.Records))
			assert.Equal(t, "loaded", response.Status)
			require.Len(t, response.Skipped, 1)
			assert.Equal(t, record.FieldCreatedAt, response.Skipped[0].Field)
		})
	}
}

func TestListRecordsInvalidInput(t *testing.T) {
	t.Parallel()

	dashboard := newService(t, &ingest.TextSource{Text: runsCSV}, view.Options{})

	_, cErr := dashboard.ListRecords(&contract.ListRecords{Filter: "accuracy_test >"})
	require.NotNil(t, cErr)
	assert.Equal(t, contract.ErrorCodeInvalidParameterValue, cErr.Code)

	_, cErr = dashboard.ListRecords(&contract.ListRecords{SortBy: "loss"})
	require.NotNil(t, cErr)
	assert.Equal(t, contract.ErrorCodeInvalidParameterValue, cErr.Code)
}

func TestGetRecord(t *testing.T) {
	t.Parallel()

	dashboard := newService(t, &ingest.TextSource{Text: runsCSV}, view.Options{AutoSelectFirst: true})

	response, cErr := dashboard.GetRecord(&contract.GetRecord{ID: 1})
	require.Nil(t, cErr)
	assert.Equal(t, "gpt", response.Record.LLMName)
	assert.True(t, response.Selected)

	response, cErr = dashboard.GetRecord(&contract.GetRecord{ID: 2})
	require.Nil(t, cErr)
	assert.False(t, response.Selected)

	_, cErr = dashboard.GetRecord(&contract.GetRecord{ID: 4})
	require.NotNil(t, cErr)
	assert.Equal(t, contract.ErrorCodeResourceDoesNotExist, cErr.Code)
}

func TestGetSeries(t *testing.T) {
	t.Parallel()

	dashboard := newService(t, &ingest.TextSource{Text: runsCSV}, view.Options{})

	response, cErr := dashboard.GetSeries(&contract.GetSeries{})
	require.Nil(t, cErr)
	assert.Equal(t, "llm_name", response.Category)
	require.Len(t, response.Series, 3)

	gpt := response.Series[0]
	assert.Equal(t, "gpt", gpt.Category)
	assert.Equal(t, "gpt (test)", gpt.Label)
	assert.Equal(t, "#8884d8", gpt.Color)
	require.Len(t, gpt.Points, 2)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", gpt.Points[0].X)
	assert.Equal(t, record.Metric(0.78), gpt.Points[0].Y)

	claude := response.Series[1]
	assert.Equal(t, "#82ca9d", claude.Color)
	assert.Len(t, claude.Points, 1)

	unknown := response.Series[2]
	assert.Equal(t, "unknown (test)", unknown.Label)
	assert.Len(t, unknown.Points, 1)
	assert.Empty(t, unknown.Line, "NaN points are left out of the line")

	_, cErr = dashboard.GetSeries(&contract.GetSeries{Category: "nope"})
	require.NotNil(t, cErr)
}

func TestSelection(t *testing.T) {
	t.Parallel()

	dashboard := newService(t, &ingest.TextSource{Text: runsCSV}, view.Options{})

	response, cErr := dashboard.GetSelection()
	require.Nil(t, cErr)
	assert.Nil(t, response.Selection)

	response, cErr = dashboard.SetSelection(&contract.SetSelection{ID: utils.PtrTo(int64(2))})
	require.Nil(t, cErr)
	require.NotNil(t, response.Selection)
	assert.Equal(t, int64(2), response.Selection.ID)

	response, cErr = dashboard.SetSelection(&contract.SetSelection{ID: utils.PtrTo(int64(42))})
	require.Nil(t, cErr)
	require.NotNil(t, response.Selection)
	assert.Equal(t, int64(2), response.Selection.ID)

	response, cErr = dashboard.ClearSelection()
	require.Nil(t, cErr)
	assert.Nil(t, response.Selection)
}

type failingLoader struct {
	err error
}

func (l failingLoader) Load(context.Context) (*ingest.Result, error) {
	return nil, l.err
}

func TestReloadErrors(t *testing.T) {
	t.Parallel()

	scenarios := []struct {
		name string
		err  error
		code contract.ErrorCode
	}{
		{"fetch", ingest.ErrFetch, contract.ErrorCodeFetchFailed},
		{"columns", &ingest.MissingColumnsError{Columns: []record.Field{record.FieldID}}, contract.ErrorCodeFetchFailed},
		{"other", errors.New("boom"), contract.ErrorCodeInternal},
	}

	for _, scenario := range scenarios {
		scenario := scenario
		t.Run(scenario.name, func(t *testing.T) {
			t.Parallel()

			logger, _ := test.NewNullLogger()
			state := view.New(logger, failingLoader{err: scenario.err}, view.Options{})
			dashboard := service.NewDashboardService(logger, state, language.English)

			_, cErr := dashboard.Reload(context.Background())
			require.NotNil(t, cErr)
			assert.Equal(t, scenario.code, cErr.Code)

			response, cErr := dashboard.ListRecords(&contract.ListRecords{})
			require.Nil(t, cErr)
			assert.Equal(t, "empty", response.Status)
			assert.Empty(t, response.Records)
		})
	}

	logger, _ := test.NewNullLogger()
	state := view.New(logger, &ingest.TextSource{Text: runsCSV}, view.Options{})
	state.Close()

	_, cErr := service.NewDashboardService(logger, state, language.English).Reload(context.Background())
	require.NotNil(t, cErr)
	assert.Equal(t, contract.ErrorCodeServiceUnavailable, cErr.Code)
}
