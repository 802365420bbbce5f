package parser_test

import (
	"reflect"
	"testing"

	"github.com/mplm/rundash/pkg/query/lexer"
	"github.com/mplm/rundash/pkg/query/parser"
)

type Sample struct {
	input    string
	expected *parser.AndExpr
}

func TestQueries(t *testing.T) {
	t.Parallel()

	samples := []Sample{
		{
			input: "accuracy_test > 0.72",
			expected: &parser.AndExpr{
				Exprs: []*parser.CompareExpr{
					{
						Left:     parser.Identifier{Name: "accuracy_test"},
						Operator: parser.Greater,
						Right:    parser.NumberExpr{Value: 0.72},
					},
				},
			},
		},
		{
			input: "record.\"llm_name\" = 'gpt' AND accuracy_val <= 0.9",
			expected: &parser.AndExpr{
				Exprs: []*parser.CompareExpr{
					{
						Left:     parser.Identifier{Scope: "record", Name: "llm_name"},
						Operator: parser.Equals,
						Right:    parser.StringExpr{Value: "gpt"},
					},
					{
						Left:     parser.Identifier{Name: "accuracy_val"},
						Operator: parser.LessEquals,
						Right:    parser.NumberExpr{Value: 0.9},
					},
				},
			},
		},
		{
			input: "model_name ILIKE \"random%\"",
			expected: &parser.AndExpr{
				Exprs: []*parser.CompareExpr{
					{
						Left:     parser.Identifier{Name: "model_name"},
						Operator: parser.ILike,
						Right:    parser.StringExpr{Value: "random%"},
					},
				},
			},
		},
		{
			input: "llm_name NOT IN ('gpt', 'claude')",
			expected: &parser.AndExpr{
				Exprs: []*parser.CompareExpr{
					{
						Left:     parser.Identifier{Name: "llm_name"},
						Operator: parser.NotIn,
						Right:    parser.StringListExpr{Values: []string{"gpt", "claude"}},
					},
				},
			},
		},
		{
			input: "llm_name IN ()",
			expected: &parser.AndExpr{
				Exprs: []*parser.CompareExpr{
					{
						Left:     parser.Identifier{Name: "llm_name"},
						Operator: parser.In,
						Right:    parser.StringListExpr{Values: []string{}},
					},
				},
			},
		},
	}

	for _, sample := range samples {
		sample := sample
		t.Run(sample.input, func(t *testing.T) {
			t.Parallel()

			tokens, err := lexer.Tokenize(sample.input)
			if err != nil {
				t.Fatalf("unexpected lex error: %v", err)
			}

			ast, err := parser.Parse(tokens)
			if err != nil {
				t.Fatalf("error parsing: %s", err)
			}

			if !reflect.DeepEqual(ast, sample.expected) {
				t.Errorf("expected %#v, got %#v", sample.expected, ast)
			}
		})
	}
}

func TestInvalidSyntax(t *testing.T) {
	t.Parallel()

	samples := []string{
		"llm_name IS 'gpt'",
		"llm_name = 'gpt' AND",
		"llm_name IN ('gpt'",
		"llm_name NOT 'gpt'",
		"accuracy_test > 0.5 0.6",
		"= 0.5",
	}

	for _, sample := range samples {
		sample := sample
		t.Run(sample, func(t *testing.T) {
			t.Parallel()

			tokens, err := lexer.Tokenize(sample)
			if err != nil {
				t.Fatalf("unexpected lex error: %v", err)
			}

			if _, err := parser.Parse(tokens); err == nil {
				t.Errorf("expected parse error, got nil")
			}
		})
	}
}
