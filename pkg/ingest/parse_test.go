package ingest_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mplm/rundash/pkg/ingest"
	"github.com/mplm/rundash/pkg/record"
)

const sampleCSV = `id,llm_name,accuracy_val,accuracy_test,created_at
1,gpt,0.80,0.78,2024-01-01
2,claude,0.75,0.77,2024-01-02
3,gpt,0.83,0.81,2024-01-03
`

func ids(records []record.Record) []int64 {
	out := make([]int64, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}

	return out
}

func TestParseWellFormedRows(t *testing.T) {
	t.Parallel()

	result, err := ingest.ParseString(sampleCSV)
	require.NoError(t, err)
	require.Len(t, result.Records, 3)
	assert.Empty(t, result.Skipped)

	first := result.Records[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "gpt", first.LLMName)
	assert.InDelta(t, 0.80, first.AccuracyVal.Float64(), 1e-9)
	assert.InDelta(t, 0.78, first.AccuracyTest.Float64(), 1e-9)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", first.CreatedAt)
	assert.Equal(t, "", first.TrainCode)
}

func TestParseSkipsMalformedDate(t *testing.T) {
	t.Parallel()

	result, err := ingest.ParseString(sampleCSV + "4,gpt,0.9,0.9,not-a-date\n")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(result.Records))
	require.Len(t, result.Skipped, 1)

	skipped := result.Skipped[0]
	assert.Equal(t, 5, skipped.Line)
	assert.Equal(t, record.FieldCreatedAt, skipped.Field)
	assert.Equal(t, "not-a-date", skipped.Value)
	require.ErrorIs(t, skipped, record.ErrInvalidTimestamp)
}

func TestParseRowErrors(t *testing.T) {
	t.Parallel()

	input := `id,llm_name,accuracy_val,accuracy_test,created_at
x,gpt,0.1,0.2,2024-01-01
1,gpt,0.1,0.2,2024-01-01
1,gpt,0.3,0.4,2024-01-02
`
	result, err := ingest.ParseString(input)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(result.Records))
	require.Len(t, result.Skipped, 2)
	require.ErrorIs(t, result.Skipped[0], ingest.ErrInvalidID)
	require.ErrorIs(t, result.Skipped[1], ingest.ErrDuplicateID)
	assert.Equal(t, 4, result.Skipped[1].Line)
}

func TestParseNumericCoercion(t *testing.T) {
	t.Parallel()

	input := `id,llm_name,accuracy_val,accuracy_test,created_at
1,gpt,,oops,2024-01-01
`
	result, err := ingest.ParseString(input)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.True(t, result.Records[0].AccuracyVal.IsNaN())
	assert.True(t, result.Records[0].AccuracyTest.IsNaN())
	assert.Empty(t, result.Skipped)
}

func TestParseMissingColumns(t *testing.T) {
	t.Parallel()

	_, err := ingest.ParseString("id,llm_name,accuracy_val\n1,gpt,0.5\n")
	require.ErrorIs(t, err, ingest.ErrMissingColumns)

	var missing *ingest.MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []record.Field{record.FieldAccuracyTest, record.FieldCreatedAt}, missing.Columns)

	_, err = ingest.ParseString("")
	require.ErrorIs(t, err, ingest.ErrNoHeader)
}

func TestParseExportedLayout(t *testing.T) {
	t.Parallel()

	// Exports written by pandas carry an unnamed index column and quoted multi-line code.
	input := "\ufeff,id,llm_name,dataset_summary_code,dataset_summary,train_code,model_name,model_path,accuracy_val,accuracy_test,created_at\n" +
		"0,7,gpt,\"import pandas as pd\ndf.describe()\",rows: 891,\"model.fit(X, y)\",RandomForest,models/7.pkl,0.81,0.79,2024-06-01 10:20:30.123456\n" +
		"\n" +
		",,,,,,,,,,\n" +
		"1,8,,,,,,,0.7,0.69,2024-06-02 08:00:00+09:00\n"

	result, err := ingest.ParseString(input)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Empty(t, result.Skipped)

	first := result.Records[0]
	assert.Equal(t, int64(7), first.ID)
	assert.Equal(t, "import pandas as pd\ndf.describe()", first.DatasetSummaryCode)
	assert.Equal(t, "model.fit(X, y)", first.TrainCode)
	assert.Equal(t, "models/7.pkl", first.ModelPath)
	assert.Equal(t, "2024-06-01T10:20:30.123Z", first.CreatedAt)

	second := result.Records[1]
	assert.Equal(t, "", second.LLMName)
	assert.Equal(t, "2024-06-01T23:00:00.000Z", second.CreatedAt)
}

func TestWriteCSVIsIngestible(t *testing.T) {
	t.Parallel()

	source, err := ingest.ParseString(sampleCSV + "4,claude,n/a,0.5,2024-01-04T12:00:00Z\n")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ingest.WriteCSV(&buf, source.Records))

	again, err := ingest.Parse(&buf)
	require.NoError(t, err)
	require.Len(t, again.Records, len(source.Records))

	for index, rec := range again.Records {
		expected := source.Records[index]
		assert.Equal(t, expected.ID, rec.ID)
		assert.Equal(t, expected.CreatedAt, rec.CreatedAt)
		assert.Equal(t, expected.AccuracyVal.IsNaN(), rec.AccuracyVal.IsNaN())
	}
}
