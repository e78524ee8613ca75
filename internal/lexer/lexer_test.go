package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxlang/flux/internal/lexer"
	"github.com/fluxlang/flux/internal/source"
	"github.com/fluxlang/flux/internal/token"
)

func scanAll(t *testing.T, text string) []token.Token {
	t.Helper()
	l := lexer.New(source.New("test.flux", text))
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks := scanAll(t, "def class foo_bar _x9")
	require.Len(t, toks, 5)
	assert.Equal(t, token.DEF, toks[0].Kind)
	assert.Equal(t, token.CLASS, toks[1].Kind)
	assert.Equal(t, token.IDENT, toks[2].Kind)
	assert.Equal(t, "foo_bar", toks[2].Literal)
	assert.Equal(t, token.IDENT, toks[3].Kind)
	assert.Equal(t, token.EOF, toks[4].Kind)
}

func TestIntegerLiteralBases(t *testing.T) {
	cases := []struct {
		input string
		want  int64
	}{
		{"42", 42},
		{"0x2A", 42},
		{"101010b", 42},
		{"52o", 42},
	}
	for _, c := range cases {
		toks := scanAll(t, c.input)
		require.GreaterOrEqual(t, len(toks), 1)
		assert.Equal(t, token.INT, toks[0].Kind, "input %q", c.input)
		assert.Equal(t, c.want, toks[0].Literal, "input %q", c.input)
	}
}

func TestFloatLiteral(t *testing.T) {
	toks := scanAll(t, "3.14")
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, token.FLOAT, toks[0].Kind)
	assert.InDelta(t, 3.14, toks[0].Literal, 1e-9)
}

func TestBitWidthSpecifier(t *testing.T) {
	l := lexer.New(source.New("test.flux", "int{32} x"))
	tok := l.NextToken()
	assert.Equal(t, token.INT_KW, tok.Kind)
	bw, ok := l.TryBitWidth()
	require.True(t, ok)
	assert.Equal(t, token.BIT_WIDTH, bw.Kind)
	assert.Equal(t, 32, bw.Literal)
	next := l.NextToken()
	assert.Equal(t, token.IDENT, next.Kind)
}

func TestTryBitWidthLeavesStateUnchangedWhenAbsent(t *testing.T) {
	l := lexer.New(source.New("test.flux", "{1,2}"))
	_, ok := l.TryBitWidth()
	assert.False(t, ok)
	tok := l.NextToken()
	assert.Equal(t, token.LBRACE, tok.Kind)
}

func TestStringEscapes(t *testing.T) {
	toks := scanAll(t, `"a\nb\tc"`)
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "a\nb\tc", toks[0].Literal)
}

func TestStringHexAndUnicodeEscapes(t *testing.T) {
	toks := scanAll(t, `"\x41BC"`)
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "ABC", toks[0].Literal)

	toks = scanAll(t, `"caf\u00e9"`)
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "café", toks[0].Literal)
}

func TestCharLiteral(t *testing.T) {
	toks := scanAll(t, `'x'`)
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, token.CHAR, toks[0].Kind)
	assert.Equal(t, 'x', toks[0].Literal)
}

func TestLineAndBlockComments(t *testing.T) {
	toks := scanAll(t, "a // trailing comment\nb /* block\ncomment */ c")
	ks := kinds(toks)
	assert.Equal(t, []token.Kind{token.IDENT, token.IDENT, token.IDENT, token.EOF}, ks)
}

func TestOperatorDisambiguation(t *testing.T) {
	toks := scanAll(t, "<<= << <= < >>= >> >= > == = != ! ++ -- -> @ :: :")
	want := []token.Kind{
		token.LSHIFT_ASSIGN, token.LSHIFT, token.LTE, token.LT,
		token.RSHIFT_ASSIGN, token.RSHIFT, token.GTE, token.GT,
		token.EQ, token.ASSIGN, token.NOT_EQ, token.BANG,
		token.PLUS_PLUS, token.MINUS_MINUS, token.ARROW, token.AT,
		token.COLONCOLON, token.COLON, token.EOF,
	}
	assert.Equal(t, want, kinds(toks))
}

// TestIStringSubStateMachine exercises the NONE->IN_TEXT->WAITING_FOR_COLON
// ->IN_EXPR transitions from an i-string with two embedded expressions.
func TestIStringSubStateMachine(t *testing.T) {
	l := lexer.New(source.New("test.flux", `i"sum is {} and {}":{a; b + 1;}`))

	start := l.NextToken()
	require.Equal(t, token.ISTRING_START, start.Kind)

	text := l.ReadIStringText()
	require.Equal(t, token.ISTRING_TEXT, text.Kind)
	assert.Equal(t, "sum is {} and {}", text.Literal)

	exprStart := l.NextIStringToken()
	require.Equal(t, token.ISTRING_EXPR_START, exprStart.Kind)
	require.True(t, l.InIStringExpr())

	a := l.NextIStringToken()
	assert.Equal(t, token.IDENT, a.Kind)
	assert.Equal(t, "a", a.Literal)

	semi := l.NextIStringToken()
	assert.Equal(t, token.SEMICOLON, semi.Kind)

	b := l.NextIStringToken()
	assert.Equal(t, token.IDENT, b.Kind)

	plus := l.NextIStringToken()
	assert.Equal(t, token.PLUS, plus.Kind)

	one := l.NextIStringToken()
	assert.Equal(t, token.INT, one.Kind)

	semi2 := l.NextIStringToken()
	assert.Equal(t, token.SEMICOLON, semi2.Kind)

	end := l.NextIStringToken()
	assert.Equal(t, token.ISTRING_EXPR_END, end.Kind)
	assert.False(t, l.InIStringExpr())
}

func TestIStringWithoutArgsEndsCleanly(t *testing.T) {
	l := lexer.New(source.New("test.flux", `i"no placeholders here"`))
	start := l.NextToken()
	require.Equal(t, token.ISTRING_START, start.Kind)
	text := l.ReadIStringText()
	require.Equal(t, token.ISTRING_TEXT, text.Kind)
	end := l.NextIStringToken()
	assert.Equal(t, token.ISTRING_END, end.Kind)
}

// TestTotalityAndPositionMonotonicity checks that each of several
// deliberately malformed inputs still reaches EOF without panicking and
// that token start positions never regress,
// matching the tokenizer's totality/position-monotonicity guarantees.
func TestTotalityAndPositionMonotonicity(t *testing.T) {
	inputs := []string{
		`class X { int a; }`,
		"`unterminated",
		`"unterminated string`,
		`i"unterminated`,
		"$ # unexpected chars !! @@",
		"",
	}
	for _, in := range inputs {
		toks := scanAll(t, in)
		require.NotEmpty(t, toks)
		assert.Equal(t, token.EOF, toks[len(toks)-1].Kind, "input %q must reach EOF", in)
		last := -1
		for _, tok := range toks {
			assert.GreaterOrEqual(t, tok.Range.Start, last, "position must not regress for input %q", in)
			last = tok.Range.Start
		}
	}
}

func TestNextTokenIsDeterministic(t *testing.T) {
	text := "a b c"
	l1 := lexer.New(source.New("test.flux", text))
	first := l1.NextToken()
	snapshotNext := l1.NextToken()

	l2 := lexer.New(source.New("test.flux", text))
	onlyFirst := l2.NextToken()
	assert.Equal(t, first, onlyFirst)
	second := l2.NextToken()
	assert.Equal(t, snapshotNext, second)
}
