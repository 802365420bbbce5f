package parser

// --------------------
// Literal Expressions
// --------------------

type Value interface {
	value() interface{}
}

type NumberExpr struct {
	Value float64
}

func (n NumberExpr) value() interface{} { return n.Value }

type StringExpr struct {
	Value string
}

func (s StringExpr) value() interface{} { return s.Value }

type StringListExpr struct {
	Values []string
}

func (s StringListExpr) value() interface{} { return s.Values }

// -----------------------
// Identifier Expressions
// -----------------------

// Identifier is a field reference with an optional scope, as in "record.llm_name".
type Identifier struct {
	Scope string
	Name  string
}

// ----------------------
// Comparison Expressions
// ----------------------

type Operator int

const (
	Equals Operator = iota
	NotEquals
	Less
	LessEquals
	Greater
	GreaterEquals
	Like
	ILike
	In
	NotIn
)

func (o Operator) String() string {
	switch o {
	case Equals:
		return "="
	case NotEquals:
		return "!="
	case Less:
		return "<"
	case LessEquals:
		return "<="
	case Greater:
		return ">"
	case GreaterEquals:
		return ">="
	case Like:
		return "LIKE"
	case ILike:
		return "ILIKE"
	case In:
		return "IN"
	case NotIn:
		return "NOT IN"
	default:
		return "?"
	}
}

// a operator b
type CompareExpr struct {
	Left     Identifier
	Operator Operator
	Right    Value
}

// AND
type AndExpr struct {
	Exprs []*CompareExpr
}
