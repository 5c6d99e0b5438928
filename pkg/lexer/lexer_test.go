package lexer_test

import (
	"testing"

	"craftc/pkg/lexer"
	"craftc/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenize_LetAndAssignment(t *testing.T) {
	toks, err := lexer.Tokenize("let x = 5;\n")
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.Let, token.Assignment, token.Number, token.Semicolon, token.EOL, token.EOF}, kinds(toks))
	assert.Equal(t, "x", toks[0].Text)
	assert.Equal(t, "5", toks[2].Text)
}

func TestTokenize_ConstMarksName(t *testing.T) {
	toks, err := lexer.Tokenize("const p = 1;\n")
	require.NoError(t, err)
	require.Equal(t, token.Let, toks[0].Kind)
	name, static := toks[0].IsConst()
	assert.Equal(t, "p", name)
	assert.True(t, static)
}

func TestTokenize_KeywordRequiresTrailingSpace(t *testing.T) {
	// "let" immediately followed by "(" with no trailing space names a
	// function call to something literally named "let", not a declaration.
	toks, err := lexer.Tokenize("let(x)\n")
	require.NoError(t, err)
	assert.Equal(t, token.Symbol, toks[0].Kind)
	assert.Equal(t, "let", toks[0].Text)
	assert.Equal(t, token.Parens, toks[1].Kind)
}

func TestTokenize_BalancedParensRecurse(t *testing.T) {
	toks, err := lexer.Tokenize("foo(1, 2)\n")
	require.NoError(t, err)
	require.Equal(t, token.Symbol, toks[0].Kind)
	require.Equal(t, token.Parens, toks[1].Kind)
	assert.Equal(t, []token.Kind{token.Number, token.Comma, token.Number}, kinds(toks[1].Tokens))
}

func TestTokenize_IfConditionSubstream(t *testing.T) {
	toks, err := lexer.Tokenize("if x > 1 {\n}\n")
	require.NoError(t, err)
	require.Equal(t, token.If, toks[0].Kind)
	assert.Equal(t, []token.Kind{token.Symbol, token.GreaterThan, token.Number}, kinds(toks[0].Tokens))
}

func TestTokenize_WhileHeader(t *testing.T) {
	toks, err := lexer.Tokenize("while item = list {\n}\n")
	require.NoError(t, err)
	require.Equal(t, token.While, toks[0].Kind)
	assert.Equal(t, "item", toks[0].Name)
	assert.Equal(t, []token.Kind{token.Symbol}, kinds(toks[0].Tokens))
}

func TestTokenize_MemberChain(t *testing.T) {
	toks, err := lexer.Tokenize("p.x\n")
	require.NoError(t, err)
	require.Equal(t, token.Symbol, toks[0].Kind)
	require.Equal(t, token.Period, toks[1].Kind)
	assert.Equal(t, []token.Kind{token.Symbol}, kinds(toks[1].Tokens))
}

func TestTokenize_StringEscapes(t *testing.T) {
	toks, err := lexer.Tokenize(`"a\"b"` + "\n")
	require.NoError(t, err)
	require.Equal(t, token.DoubleQuote, toks[0].Kind)
	assert.Equal(t, `a"b`, toks[0].Text)
}

func TestTokenize_UnterminatedStringErrors(t *testing.T) {
	_, err := lexer.Tokenize(`"abc`)
	require.Error(t, err)
}

func TestTokenize_UnexpectedCharacterErrors(t *testing.T) {
	_, err := lexer.Tokenize("@\n")
	require.Error(t, err)
}

func TestTokenize_NewConstructor(t *testing.T) {
	toks, err := lexer.Tokenize(`new Entity("@s")` + "\n")
	require.NoError(t, err)
	require.Equal(t, token.New, toks[0].Kind)
	assert.Equal(t, "Entity", toks[0].Name)
	assert.Equal(t, token.DoubleQuote, toks[0].Tokens[0].Kind)
}

func TestParseIntLiteral(t *testing.T) {
	n, err := lexer.ParseIntLiteral("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}
