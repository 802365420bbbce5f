package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mplm/rundash/pkg/contract"
	"github.com/mplm/rundash/pkg/ingest"
	"github.com/mplm/rundash/pkg/record"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle   = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D69E2E"))
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#CBD5E0", Dark: "#4A5568"})
)

// tableFields are the columns shown by inspect; the long text fields stay in
// the record detail.
//
//nolint:gochecknoglobals
var tableFields = []record.Field{
	record.FieldID,
	record.FieldLLMName,
	record.FieldModelName,
	record.FieldAccuracyVal,
	record.FieldAccuracyTest,
	record.FieldCreatedAt,
}

func renderRecords(response *contract.ListRecordsResponse) string {
	headers := make([]string, 0, len(tableFields))
	for _, field := range tableFields {
		header := field.String()
		if field.String() == response.SortBy {
			if response.Order == "desc" {
				header += " ↓"
			} else {
				header += " ↑"
			}
		}

		headers = append(headers, header)
	}

	rows := make([][]string, 0, len(response.Records))
	for _, rec := range response.Records {
		row := make([]string, 0, len(tableFields))
		for _, field := range tableFields {
			row = append(row, rec.Format(field))
		}

		rows = append(rows, row)
	}

	records := response.Records

	grid := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			if row >= 0 && row < len(records) && records[row].Missing(tableFields[col]) {
				return mutedStyle
			}

			return cellStyle
		})

	return titleStyle.Render(fmt.Sprintf("%d run records", len(records))) + "\n" + grid.String() + "\n"
}

func renderSeries(response *contract.GetSeriesResponse) string {
	var builder strings.Builder

	builder.WriteString(titleStyle.Render("Series by " + response.Category))
	builder.WriteString("\n")

	for _, line := range response.Series {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(line.Color)).Render("■")
		fmt.Fprintf(&builder, "%s %s %d points\n", swatch, line.Label, len(line.Points))
	}

	return builder.String()
}

func renderSkipped(skipped []ingest.RowError) string {
	if len(skipped) == 0 {
		return ""
	}

	var builder strings.Builder

	builder.WriteString(warningStyle.Render(fmt.Sprintf("%d rows skipped", len(skipped))))
	builder.WriteString("\n")

	for _, row := range skipped {
		fmt.Fprintf(&builder, "  line %d: %s %q: %v\n", row.Line, row.Field, row.Value, row.Err)
	}

	return builder.String()
}
