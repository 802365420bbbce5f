// Package parser builds and type-checks the syntax tree of a filter expression.
package parser

import (
	"fmt"
	"strconv"

	"github.com/mplm/rundash/pkg/query/lexer"
)

type Error struct {
	message string
}

func NewParserError(format string, a ...any) *Error {
	return &Error{message: fmt.Sprintf(format, a...)}
}

func (e *Error) Error() string {
	return e.message
}

type parser struct {
	tokens []lexer.Token
	pos    int
}

func (p *parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Kind: lexer.EOF, Value: "EOF"}
	}

	return p.tokens[p.pos]
}

func (p *parser) kind() lexer.Kind {
	return p.current().Kind
}

func (p *parser) advance() lexer.Token {
	token := p.current()
	p.pos++

	return token
}

func (p *parser) expect(kind lexer.Kind) (lexer.Token, error) {
	if p.kind() != kind {
		return lexer.Token{}, NewParserError("expected %s, got %s", kind, p.current().Debug())
	}

	return p.advance(), nil
}

func unquote(literal string) string {
	return literal[1 : len(literal)-1]
}

func (p *parser) parseIdentifier() (Identifier, error) {
	first, err := p.expect(lexer.Identifier)
	if err != nil {
		return Identifier{}, err
	}

	if p.kind() != lexer.Dot {
		return Identifier{Name: first.Value}, nil
	}

	p.advance() // Consume the DOT

	switch p.kind() {
	case lexer.Identifier:
		return Identifier{Scope: first.Value, Name: p.advance().Value}, nil
	case lexer.String:
		return Identifier{Scope: first.Value, Name: unquote(p.advance().Value)}, nil
	default:
		return Identifier{}, NewParserError("expected identifier or string after '.', got %s", p.current().Debug())
	}
}

func (p *parser) parseOperator() (Operator, error) {
	token := p.advance()

	switch token.Kind {
	case lexer.Equals:
		return Equals, nil
	case lexer.NotEquals:
		return NotEquals, nil
	case lexer.Less:
		return Less, nil
	case lexer.LessEquals:
		return LessEquals, nil
	case lexer.Greater:
		return Greater, nil
	case lexer.GreaterEquals:
		return GreaterEquals, nil
	case lexer.Like:
		return Like, nil
	case lexer.ILike:
		return ILike, nil
	default:
		return -1, NewParserError("expected operator, got %s", token.Debug())
	}
}

func (p *parser) parseValue() (Value, error) {
	switch p.kind() {
	case lexer.Number:
		token := p.advance()

		n, err := strconv.ParseFloat(token.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("number %q could not be parsed: %w", token.Value, err)
		}

		return NumberExpr{Value: n}, nil
	case lexer.String:
		return StringExpr{Value: unquote(p.advance().Value)}, nil
	default:
		return nil, NewParserError("expected number or string, got %s", p.current().Debug())
	}
}

func (p *parser) parseStringList() (StringListExpr, error) {
	if _, err := p.expect(lexer.OpenParen); err != nil {
		return StringListExpr{}, err
	}

	values := make([]string, 0)

	for p.kind() != lexer.CloseParen {
		token, err := p.expect(lexer.String)
		if err != nil {
			return StringListExpr{}, err
		}

		values = append(values, unquote(token.Value))

		if p.kind() != lexer.Comma {
			break
		}

		p.advance() // Consume the COMMA
	}

	if _, err := p.expect(lexer.CloseParen); err != nil {
		return StringListExpr{}, err
	}

	return StringListExpr{Values: values}, nil
}

func (p *parser) parseExpression() (*CompareExpr, error) {
	left, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	operator := In

	switch p.kind() {
	case lexer.Not:
		p.advance() // Consume the NOT

		if _, err := p.expect(lexer.In); err != nil {
			return nil, err
		}

		operator = NotIn
	case lexer.In:
		p.advance() // Consume the IN
	default:
		operator, err := p.parseOperator()
		if err != nil {
			return nil, err
		}

		right, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		return &CompareExpr{Left: left, Operator: operator, Right: right}, nil
	}

	list, err := p.parseStringList()
	if err != nil {
		return nil, err
	}

	return &CompareExpr{Left: left, Operator: operator, Right: list}, nil
}

func Parse(tokens []lexer.Token) (*AndExpr, error) {
	p := &parser{tokens: tokens}
	exprs := make([]*CompareExpr, 0)

	first, err := p.parseExpression()
	if err != nil {
		return nil, fmt.Errorf("error while parsing initial expression: %w", err)
	}

	exprs = append(exprs, first)

	for p.kind() == lexer.And {
		p.advance() // Consume the AND

		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		exprs = append(exprs, expr)
	}

	if p.kind() != lexer.EOF {
		return nil, NewParserError("unexpected leftover token(s) after parsing: %s", p.current().Debug())
	}

	return &AndExpr{Exprs: exprs}, nil
}
