// Package series partitions run records into per-category chart series.
package series

import (
	"slices"
	"time"

	"github.com/mplm/rundash/pkg/record"
)

// UnknownLabel is displayed for records whose category value is empty.
const UnknownLabel = "unknown"

// Point is one (created_at, accuracy_test) sample of a series.
type Point struct {
	ID int64         `json:"id"`
	X  string        `json:"x"`
	Y  record.Metric `json:"y"`
}

// Series holds the points of one category in input order. Index is the
// category's position in first-appearance order.
type Series struct {
	Category string  `json:"category"`
	Index    int     `json:"index"`
	Points   []Point `json:"points"`
}

func (s Series) Label() string {
	if s.Category == "" {
		return UnknownLabel
	}

	return s.Category
}

// Group partitions records by the value of field. Series come back in order of
// first appearance and every record lands in exactly one series; records with
// an empty category share the "" series.
func Group(records []record.Record, field record.Field) []Series {
	groups := make([]Series, 0)
	positions := make(map[string]int)

	for _, rec := range records {
		category := rec.Format(field)

		position, ok := positions[category]
		if !ok {
			position = len(groups)
			positions[category] = position
			groups = append(groups, Series{
				Category: category,
				Index:    position,
				Points:   make([]Point, 0),
			})
		}

		groups[position].Points = append(groups[position].Points, Point{
			ID: rec.ID,
			X:  rec.CreatedAt,
			Y:  rec.AccuracyTest,
		})
	}

	return groups
}

// Chronological orders points along the time axis for drawing a line. Points
// with a NaN value or an unparseable time are dropped so the line connects
// across them.
func Chronological(points []Point) []Point {
	type timed struct {
		at    time.Time
		point Point
	}

	line := make([]timed, 0, len(points))

	for _, point := range points {
		if point.Y.IsNaN() {
			continue
		}

		at, err := record.ParseTimestamp(point.X)
		if err != nil {
			continue
		}

		line = append(line, timed{at: at, point: point})
	}

	slices.SortStableFunc(line, func(a, b timed) int {
		return a.at.Compare(b.at)
	})

	out := make([]Point, 0, len(line))
	for _, entry := range line {
		out = append(out, entry.point)
	}

	return out
}
