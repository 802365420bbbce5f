// Package sorter orders run records for the table view.
package sorter

import (
	"bytes"
	"cmp"
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mplm/rundash/pkg/record"
)

// Sorter orders records by a single field. Text is compared with the collation
// rules of Locale. Records without a value for the key always come last, in
// either direction, and ties keep their input order.
type Sorter struct {
	Locale language.Tag
}

func New(locale language.Tag) *Sorter {
	return &Sorter{Locale: locale}
}

// Sort uses English collation.
func Sort(records []record.Record, key record.Field, ascending bool) []record.Record {
	return New(language.English).Sort(records, key, ascending)
}

type sortKey struct {
	missing bool
	integer int64
	number  float64
	at      time.Time
	text    []byte
}

func (s *Sorter) keys(records []record.Record, field record.Field) []sortKey {
	keys := make([]sortKey, len(records))

	var (
		collator *collate.Collator
		buf      collate.Buffer
	)

	if field.Kind() == record.Text {
		collator = collate.New(s.Locale)
	}

	for index, rec := range records {
		key := &keys[index]

		switch field.Kind() {
		case record.Integer:
			key.integer = rec.ID
		case record.Numeric:
			value := rec.Number(field)
			key.missing = value.IsNaN()
			key.number = value.Float64()
		case record.Timestamp:
			t, err := rec.Time()
			key.missing = err != nil
			key.at = t
		case record.Text:
			value := rec.Text(field)
			key.missing = value == ""
			key.text = bytes.Clone(collator.KeyFromString(&buf, value))
			buf.Reset()
		}
	}

	return keys
}

func compareKeys(kind record.Kind, a, b sortKey) int {
	switch kind {
	case record.Numeric:
		return cmp.Compare(a.number, b.number)
	case record.Text:
		return bytes.Compare(a.text, b.text)
	case record.Timestamp:
		return a.at.Compare(b.at)
	default:
		return cmp.Compare(a.integer, b.integer)
	}
}

// Sort returns a new slice; records is left untouched.
func (s *Sorter) Sort(records []record.Record, key record.Field, ascending bool) []record.Record {
	keys := s.keys(records, key)
	kind := key.Kind()

	order := make([]int, len(records))
	for index := range order {
		order[index] = index
	}

	slices.SortStableFunc(order, func(i, j int) int {
		a, b := keys[i], keys[j]

		switch {
		case a.missing && b.missing:
			return 0
		case a.missing:
			return 1
		case b.missing:
			return -1
		}

		result := compareKeys(kind, a, b)
		if !ascending {
			result = -result
		}

		return result
	})

	sorted := make([]record.Record, 0, len(records))
	for _, index := range order {
		sorted = append(sorted, records[index])
	}

	return sorted
}
