package sorter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mplm/rundash/pkg/ingest"
	"github.com/mplm/rundash/pkg/record"
	"github.com/mplm/rundash/pkg/sorter"
)

func ids(records []record.Record) []int64 {
	out := make([]int64, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}

	return out
}

func loadSample(t *testing.T) []record.Record {
	t.Helper()

	result, err := ingest.ParseString(`id,llm_name,accuracy_val,accuracy_test,created_at
1,gpt,0.80,0.78,2024-01-01
2,claude,0.75,0.77,2024-01-02
3,gpt,0.83,0.81,2024-01-03
4,,n/a,0.77,2024-01-04
`)
	require.NoError(t, err)

	return result.Records
}

func TestSortByNumericField(t *testing.T) {
	t.Parallel()

	records := loadSample(t)[:3]

	assert.Equal(t, []int64{3, 1, 2}, ids(sorter.Sort(records, record.FieldAccuracyTest, false)))
	assert.Equal(t, []int64{2, 1, 3}, ids(sorter.Sort(records, record.FieldAccuracyTest, true)))
}

func TestSortNaNLast(t *testing.T) {
	t.Parallel()

	records := loadSample(t)

	assert.Equal(t, []int64{2, 1, 3, 4}, ids(sorter.Sort(records, record.FieldAccuracyVal, true)))
	assert.Equal(t, []int64{3, 1, 2, 4}, ids(sorter.Sort(records, record.FieldAccuracyVal, false)))
}

func TestSortMissingTextLast(t *testing.T) {
	t.Parallel()

	records := loadSample(t)

	assert.Equal(t, []int64{2, 1, 3, 4}, ids(sorter.Sort(records, record.FieldLLMName, true)))
	assert.Equal(t, []int64{1, 3, 2, 4}, ids(sorter.Sort(records, record.FieldLLMName, false)))
}

func TestSortIsStable(t *testing.T) {
	t.Parallel()

	records := loadSample(t)

	// Records 2 and 4 share accuracy_test 0.77.
	assert.Equal(t, []int64{2, 4, 1, 3}, ids(sorter.Sort(records, record.FieldAccuracyTest, true)))
	assert.Equal(t, []int64{3, 1, 2, 4}, ids(sorter.Sort(records, record.FieldAccuracyTest, false)))
}

func TestSortIsIdempotentAndPure(t *testing.T) {
	t.Parallel()

	records := loadSample(t)
	before := ids(records)

	for _, field := range record.Fields {
		for _, ascending := range []bool{true, false} {
			once := sorter.Sort(records, field, ascending)
			twice := sorter.Sort(once, field, ascending)
			assert.Equal(t, ids(once), ids(twice), "field %s ascending %v", field, ascending)
		}
	}

	assert.Equal(t, before, ids(records))
}

func TestSortTimestampsChronologically(t *testing.T) {
	t.Parallel()

	records := []record.Record{
		{ID: 1, CreatedAt: "2024-01-01T09:00:00-02:00"},
		{ID: 2, CreatedAt: "2024-01-01T10:00:00Z"},
		{ID: 3, CreatedAt: "garbage"},
		{ID: 4, CreatedAt: "2023-12-31"},
	}

	assert.Equal(t, []int64{4, 2, 1, 3}, ids(sorter.Sort(records, record.FieldCreatedAt, true)))
	assert.Equal(t, []int64{1, 2, 4, 3}, ids(sorter.Sort(records, record.FieldCreatedAt, false)))
}

func TestSortUsesCollation(t *testing.T) {
	t.Parallel()

	records := []record.Record{
		{ID: 1, ModelName: "banana"},
		{ID: 2, ModelName: "Cherry"},
		{ID: 3, ModelName: "apple"},
		{ID: 4, ModelName: "éclair"},
		{ID: 5, ModelName: "fig"},
	}

	sorted := sorter.New(language.French).Sort(records, record.FieldModelName, true)
	assert.Equal(t, []int64{3, 1, 2, 4, 5}, ids(sorted))
}

func TestSortByID(t *testing.T) {
	t.Parallel()

	records := []record.Record{{ID: 10}, {ID: 2}, {ID: 33}}

	assert.Equal(t, []int64{2, 10, 33}, ids(sorter.Sort(records, record.FieldID, true)))
	assert.Empty(t, sorter.Sort(nil, record.FieldID, true))
}

func TestSortTimestampsOutsideNanosecondRange(t *testing.T) {
	t.Parallel()

	records := []record.Record{
		{ID: 1, CreatedAt: "2300-01-01T00:00:00.000Z"},
		{ID: 2, CreatedAt: "2024-01-01T00:00:00.000Z"},
		{ID: 3, CreatedAt: "1600-01-01T00:00:00.000Z"},
	}

	assert.Equal(t, []int64{3, 2, 1}, ids(sorter.Sort(records, record.FieldCreatedAt, true)))
	assert.Equal(t, []int64{1, 2, 3}, ids(sorter.Sort(records, record.FieldCreatedAt, false)))
}
