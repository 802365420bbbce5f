// Package lexer splits filter expressions such as
// `accuracy_test > 0.8 AND llm_name IN ('gpt', 'claude')` into tokens.
package lexer

import (
	"fmt"
	"regexp"
	"strings"
)

type Error struct {
	Offset int
	Near   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("unrecognized token at offset %d near %q", e.Offset, e.Near)
}

type emitter func(match string) (Token, bool)

type rule struct {
	pattern *regexp.Regexp
	emit    emitter
}

func fixed(kind Kind) emitter {
	return func(match string) (Token, bool) {
		return Token{Kind: kind, Value: match}, true
	}
}

func skip(string) (Token, bool) {
	return Token{}, false
}

func word(match string) (Token, bool) {
	if kind, ok := keywords[strings.ToUpper(match)]; ok {
		return Token{Kind: kind, Value: match}, true
	}

	return Token{Kind: Identifier, Value: match}, true
}

// Rules are tried in order; two-character operators precede their prefixes.
//
//nolint:gochecknoglobals
var rules = []rule{
	{regexp.MustCompile(`^\s+`), skip},
	{regexp.MustCompile(`^"[^"]*"`), fixed(String)},
	{regexp.MustCompile(`^'[^']*'`), fixed(String)},
	{regexp.MustCompile("^`[^`]*`"), fixed(String)},
	{regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?`), fixed(Number)},
	{regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*`), word},
	{regexp.MustCompile(`^\(`), fixed(OpenParen)},
	{regexp.MustCompile(`^\)`), fixed(CloseParen)},
	{regexp.MustCompile(`^!=`), fixed(NotEquals)},
	{regexp.MustCompile(`^<>`), fixed(NotEquals)},
	{regexp.MustCompile(`^==?`), fixed(Equals)},
	{regexp.MustCompile(`^<=`), fixed(LessEquals)},
	{regexp.MustCompile(`^<`), fixed(Less)},
	{regexp.MustCompile(`^>=`), fixed(GreaterEquals)},
	{regexp.MustCompile(`^>`), fixed(Greater)},
	{regexp.MustCompile(`^\.`), fixed(Dot)},
	{regexp.MustCompile(`^,`), fixed(Comma)},
}

// Tokenize always terminates the token list with an EOF token on success.
func Tokenize(source string) ([]Token, error) {
	tokens := make([]Token, 0)
	pos := 0

	for pos < len(source) {
		remainder := source[pos:]
		matched := false

		for _, r := range rules {
			match := r.pattern.FindString(remainder)
			if match == "" {
				continue
			}

			if token, ok := r.emit(match); ok {
				token.Offset = pos
				tokens = append(tokens, token)
			}

			pos += len(match)
			matched = true

			break
		}

		if !matched {
			return tokens, &Error{Offset: pos, Near: remainder}
		}
	}

	return append(tokens, Token{Kind: EOF, Value: "EOF", Offset: pos}), nil
}
