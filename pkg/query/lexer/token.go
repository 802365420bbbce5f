package lexer

import "fmt"

type Kind int

const (
	EOF Kind = iota
	Number
	String
	Identifier

	// Grouping.
	OpenParen
	CloseParen

	// Equivalence.
	Equals
	NotEquals

	// Ordering.
	Less
	LessEquals
	Greater
	GreaterEquals

	// Symbols.
	Dot
	Comma

	// Keywords.
	In //nolint:varnamelen
	Not
	Like
	ILike
	And
)

//nolint:gochecknoglobals
var keywords = map[string]Kind{
	"AND":   And,
	"NOT":   Not,
	"IN":    In,
	"LIKE":  Like,
	"ILIKE": ILike,
}

//nolint:gochecknoglobals
var kindNames = map[Kind]string{
	EOF:           "eof",
	Number:        "number",
	String:        "string",
	Identifier:    "identifier",
	OpenParen:     "open_paren",
	CloseParen:    "close_paren",
	Equals:        "equals",
	NotEquals:     "not_equals",
	Less:          "less",
	LessEquals:    "less_equals",
	Greater:       "greater",
	GreaterEquals: "greater_equals",
	Dot:           "dot",
	Comma:         "comma",
	In:            "in",
	Not:           "not",
	Like:          "like",
	ILike:         "ilike",
	And:           "and",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("unknown(%d)", int(k))
}

type Token struct {
	Kind  Kind
	Value string
	// Offset is the byte position of the token in the source.
	Offset int
}

// Debug renders the token for error messages and tests, e.g. "number(0.8)".
func (t Token) Debug() string {
	switch t.Kind {
	case Identifier, Number, String:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Value)
	default:
		return t.Kind.String()
	}
}
