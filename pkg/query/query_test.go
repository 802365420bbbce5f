package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mplm/rundash/pkg/ingest"
	"github.com/mplm/rundash/pkg/query"
	"github.com/mplm/rundash/pkg/record"
)

func records(t *testing.T) []record.Record {
	t.Helper()

	result, err := ingest.ParseString(`id,llm_name,model_name,accuracy_val,accuracy_test,created_at
1,gpt,RandomForestClassifier,0.80,0.78,2024-01-01
2,claude,LogisticRegression,0.75,0.77,2024-01-02
3,gpt,GradientBoosting,0.83,0.81,2024-01-03
4,,randomforest_v2,0.70,n/a,2024-01-04
`)
	require.NoError(t, err)

	return result.Records
}

func ids(records []record.Record) []int64 {
	out := make([]int64, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}

	return out
}

func TestFilterApply(t *testing.T) {
	t.Parallel()

	scenarios := []struct {
		filter   string
		expected []int64
	}{
		{filter: "", expected: []int64{1, 2, 3, 4}},
		{filter: "accuracy_test > 0.775", expected: []int64{1, 3}},
		{filter: "accuracy_test != 0.78", expected: []int64{2, 3}},
		{filter: "llm_name = 'gpt' AND accuracy_val >= 0.83", expected: []int64{3}},
		{filter: "llm_name != 'gpt'", expected: []int64{2}},
		{filter: "model_name LIKE 'Random%'", expected: []int64{1}},
		{filter: "model_name ILIKE 'random%'", expected: []int64{1, 4}},
		{filter: "model_name LIKE '_ogistic%'", expected: []int64{2}},
		{filter: "llm_name IN ('claude', 'mistral')", expected: []int64{2}},
		{filter: "llm_name NOT IN ('claude')", expected: []int64{1, 3}},
		{filter: "created_at >= '2024-01-02' AND created_at < '2024-01-04'", expected: []int64{2, 3}},
		{filter: "created_at < 1704153600000", expected: []int64{1}},
		{filter: "id <= 2", expected: []int64{1, 2}},
	}

	for _, scenario := range scenarios {
		scenario := scenario
		t.Run(scenario.filter, func(t *testing.T) {
			t.Parallel()

			filter, err := query.ParseFilter(scenario.filter)
			require.NoError(t, err)
			assert.Equal(t, scenario.expected, ids(filter.Apply(records(t))))
		})
	}
}

func TestNilFilterMatchesEverything(t *testing.T) {
	t.Parallel()

	var filter *query.Filter

	assert.True(t, filter.Empty())
	assert.Len(t, filter.Apply(records(t)), 4)
}
