// Package query filters run records with expressions like
// `accuracy_test >= 0.8 AND llm_name IN ('gpt', 'claude')`.
package query

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/mplm/rundash/pkg/query/lexer"
	"github.com/mplm/rundash/pkg/query/parser"
	"github.com/mplm/rundash/pkg/record"
)

type condition struct {
	*parser.ValidCompareExpr
	pattern *regexp.Regexp
}

// Filter is a conjunction of conditions. The zero value matches every record.
type Filter struct {
	conditions []condition
}

// likePattern translates SQL LIKE wildcards (% and _) into an anchored regexp.
func likePattern(pattern string, caseInsensitive bool) (*regexp.Regexp, error) {
	var expr strings.Builder

	expr.WriteString("(?s)")

	if caseInsensitive {
		expr.WriteString("(?i)")
	}

	expr.WriteString("^")

	for _, r := range pattern {
		switch r {
		case '%':
			expr.WriteString(".*")
		case '_':
			expr.WriteString(".")
		default:
			expr.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	expr.WriteString("$")

	return regexp.Compile(expr.String())
}

func ParseFilter(input string) (*Filter, error) {
	filter := &Filter{conditions: make([]condition, 0)}

	if strings.TrimSpace(input) == "" {
		return filter, nil
	}

	tokens, err := lexer.Tokenize(input)
	if err != nil {
		return nil, fmt.Errorf("error while lexing %s: %w", input, err)
	}

	ast, err := parser.Parse(tokens)
	if err != nil {
		return nil, fmt.Errorf("error while parsing %s: %w", input, err)
	}

	for _, expr := range ast.Exprs {
		valid, err := parser.ValidateExpression(expr)
		if err != nil {
			return nil, fmt.Errorf("error while validating %s: %w", input, err)
		}

		c := condition{ValidCompareExpr: valid}

		if valid.Operator == parser.Like || valid.Operator == parser.ILike {
			c.pattern, err = likePattern(valid.Value.(string), valid.Operator == parser.ILike)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern in %s: %w", input, err)
			}
		}

		filter.conditions = append(filter.conditions, c)
	}

	return filter, nil
}

func (f *Filter) Empty() bool {
	return f == nil || len(f.conditions) == 0
}

func compareOrdered(operator parser.Operator, cmp int) bool {
	switch operator {
	case parser.Equals:
		return cmp == 0
	case parser.NotEquals:
		return cmp != 0
	case parser.Less:
		return cmp < 0
	case parser.LessEquals:
		return cmp <= 0
	case parser.Greater:
		return cmp > 0
	case parser.GreaterEquals:
		return cmp >= 0
	default:
		return false
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (c condition) match(rec record.Record) bool {
	if rec.Missing(c.Field) {
		return false
	}

	switch c.Field.Kind() {
	case record.Integer:
		return compareOrdered(c.Operator, compareFloat(float64(rec.ID), c.Value.(float64)))
	case record.Numeric:
		return compareOrdered(c.Operator, compareFloat(rec.Number(c.Field).Float64(), c.Value.(float64)))
	case record.Timestamp:
		at, _ := rec.Time()
		return compareOrdered(c.Operator, at.Compare(c.Value.(time.Time)))
	}

	text := rec.Text(c.Field)

	switch c.Operator {
	case parser.Equals:
		return text == c.Value.(string)
	case parser.NotEquals:
		return text != c.Value.(string)
	case parser.Like, parser.ILike:
		return c.pattern.MatchString(text)
	case parser.In:
		return slices.Contains(c.Value.([]string), text)
	case parser.NotIn:
		return !slices.Contains(c.Value.([]string), text)
	default:
		return false
	}
}

// Match reports whether rec satisfies every condition. A record with no value
// for a referenced field never matches that condition.
func (f *Filter) Match(rec record.Record) bool {
	if f == nil {
		return true
	}

	for _, c := range f.conditions {
		if !c.match(rec) {
			return false
		}
	}

	return true
}

// Apply returns the matching records in their original order.
func (f *Filter) Apply(records []record.Record) []record.Record {
	out := make([]record.Record, 0, len(records))

	for _, rec := range records {
		if f.Match(rec) {
			out = append(out, rec)
		}
	}

	return out
}
