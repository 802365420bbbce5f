package parser

import (
	"fmt"
	"time"

	"github.com/mplm/rundash/pkg/record"
)

/*

Validation type-checks the untyped tree against the record fields.

Grammar rule: [scope.]field operator value

The scope is optional and only accepts aliases of the record itself.

integer and numeric fields take numbers and the ordering/equality operators.
created_at takes a timestamp string or a number of unix milliseconds.
text fields take a quoted string with =, !=, LIKE, ILIKE or a list with IN / NOT IN.

*/

type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func NewValidationError(format string, a ...interface{}) *ValidationError {
	return &ValidationError{message: fmt.Sprintf(format, a...)}
}

// ValidCompareExpr carries a typed value: float64 for integer and numeric
// fields, time.Time for created_at, string or []string for text fields.
type ValidCompareExpr struct {
	Field    record.Field
	Operator Operator
	Value    interface{}
}

func validateScope(scope string) error {
	switch scope {
	case "", "record", "records", "run", "runs", "attr", "attribute", "attributes":
		return nil
	default:
		return NewValidationError("invalid identifier scope %q", scope)
	}
}

func isOrdering(operator Operator) bool {
	switch operator {
	case Equals, NotEquals, Less, LessEquals, Greater, GreaterEquals:
		return true
	default:
		return false
	}
}

func validateNumeric(field record.Field, operator Operator, value Value) (interface{}, error) {
	if !isOrdering(operator) {
		return nil, NewValidationError("operator %s is not supported for numeric field %s", operator, field)
	}

	number, ok := value.(NumberExpr)
	if !ok {
		return nil, NewValidationError("expected numeric value type for %s. Found %#v", field, value)
	}

	return number.Value, nil
}

func validateTimestamp(field record.Field, operator Operator, value Value) (interface{}, error) {
	if !isOrdering(operator) {
		return nil, NewValidationError("operator %s is not supported for timestamp field %s", operator, field)
	}

	switch v := value.(type) {
	case NumberExpr:
		return time.UnixMilli(int64(v.Value)).UTC(), nil
	case StringExpr:
		t, err := record.ParseTimestamp(v.Value)
		if err != nil {
			return nil, NewValidationError("invalid timestamp for %s: %v", field, err)
		}

		return t, nil
	default:
		return nil, NewValidationError("expected a timestamp string or unix milliseconds for %s", field)
	}
}

func validateText(field record.Field, operator Operator, value Value) (interface{}, error) {
	switch operator {
	case Equals, NotEquals, Like, ILike:
		text, ok := value.(StringExpr)
		if !ok {
			return nil, NewValidationError("expected a quoted string value for %s. Found %#v", field, value)
		}

		return text.Value, nil
	case In, NotIn:
		list, ok := value.(StringListExpr)
		if !ok {
			return nil, NewValidationError("expected a list of quoted strings for %s", field)
		}

		return list.Values, nil
	default:
		return nil, NewValidationError("operator %s is not supported for text field %s", operator, field)
	}
}

// ValidateExpression resolves the field of expression and checks that the
// operator and value fit its kind.
func ValidateExpression(expression *CompareExpr) (*ValidCompareExpr, error) {
	if err := validateScope(expression.Left.Scope); err != nil {
		return nil, fmt.Errorf("error on parsing filter expression: %w", err)
	}

	field, err := record.ParseField(expression.Left.Name)
	if err != nil {
		return nil, fmt.Errorf("error on parsing filter expression: %w", err)
	}

	var value interface{}

	switch field.Kind() {
	case record.Integer, record.Numeric:
		value, err = validateNumeric(field, expression.Operator, expression.Right)
	case record.Timestamp:
		value, err = validateTimestamp(field, expression.Operator, expression.Right)
	default:
		value, err = validateText(field, expression.Operator, expression.Right)
	}

	if err != nil {
		return nil, fmt.Errorf("error on parsing filter expression: %w", err)
	}

	return &ValidCompareExpr{
		Field:    field,
		Operator: expression.Operator,
		Value:    value,
	}, nil
}
