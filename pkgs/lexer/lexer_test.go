package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyan-lang/nyan/pkgs/langerr"
	"github.com/nyan-lang/nyan/pkgs/lexer"
	"github.com/nyan-lang/nyan/pkgs/source"
)

func tokenize(t *testing.T, text string) []lexer.Token {
	t.Helper()
	unit := source.New("<test>", text)
	toks, err := lexer.New(unit).Tokenize()
	require.NoError(t, err)
	return toks
}

func kinds(toks []lexer.Token) []lexer.Kind {
	out := make([]lexer.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenize_SimpleObject(t *testing.T) {
	toks := tokenize(t, "First():\n    member : int = 17\n")
	got := kinds(toks)
	want := []lexer.Kind{
		lexer.Id, lexer.LParen, lexer.RParen, lexer.Colon, lexer.EndLine,
		lexer.Indent,
		lexer.Id, lexer.Colon, lexer.Id, lexer.Operator, lexer.Int, lexer.EndLine,
		lexer.Dedent, lexer.EndFile,
	}
	assert.Equal(t, want, got)
}

func TestTokenize_IndentDedentBalance(t *testing.T) {
	toks := tokenize(t, "A():\n    pass\nB():\n    pass\n")
	indents, dedents := 0, 0
	for _, tok := range toks {
		switch tok.Kind {
		case lexer.Indent:
			indents++
		case lexer.Dedent:
			dedents++
		}
	}
	assert.Equal(t, indents, dedents)
}

func TestTokenize_BlankAndCommentLinesDoNotAffectIndent(t *testing.T) {
	toks := tokenize(t, "A():\n    pass\n\n    # a comment\nB():\n    pass\n")
	got := kinds(toks)
	assert.NotContains(t, got, lexer.Illegal)
	want := []lexer.Kind{
		lexer.Id, lexer.LParen, lexer.RParen, lexer.Colon, lexer.EndLine,
		lexer.Indent, lexer.Pass, lexer.EndLine,
		lexer.Dedent,
		lexer.Id, lexer.LParen, lexer.RParen, lexer.Colon, lexer.EndLine,
		lexer.Indent, lexer.Pass, lexer.EndLine,
		lexer.Dedent, lexer.EndFile,
	}
	assert.Equal(t, want, got)
}

func TestTokenize_TabsRejected(t *testing.T) {
	unit := source.New("<test>", "A():\n\tpass\n")
	_, err := lexer.New(unit).Tokenize()
	require.Error(t, err)
	le, ok := err.(*langerr.LangError)
	require.True(t, ok)
	assert.Equal(t, langerr.Tokenize, le.Kind)
}

func TestTokenize_BadIndentWidth(t *testing.T) {
	unit := source.New("<test>", "A():\n   pass\n")
	_, err := lexer.New(unit).Tokenize()
	require.Error(t, err)
	le, ok := err.(*langerr.LangError)
	require.True(t, ok)
	assert.Equal(t, langerr.Tokenize, le.Kind)
	assert.Equal(t, 2, le.Location.Line)
}

func TestTokenize_CustomIndentWidth(t *testing.T) {
	unit := source.New("<test>", "A():\n  pass\n")
	toks, err := lexer.New(unit, lexer.WithIndentWidth(2)).Tokenize()
	require.NoError(t, err)
	assert.Contains(t, kinds(toks), lexer.Indent)
}

func TestTokenize_StringEscapes(t *testing.T) {
	toks := tokenize(t, `A():
    s : text = "a\nb\tc\\d\"e"
`)
	var found bool
	for _, tok := range toks {
		if tok.Kind == lexer.String {
			assert.Equal(t, "a\nb\tc\\d\"e", tok.Text)
			found = true
		}
	}
	assert.True(t, found)
}

func TestTokenize_UnterminatedString(t *testing.T) {
	unit := source.New("<test>", "A():\n    s : text = \"abc\n")
	_, err := lexer.New(unit).Tokenize()
	require.Error(t, err)
}

func TestTokenize_Operators(t *testing.T) {
	toks := tokenize(t, "A():\n    m += 1\n    n -= 1\n    o *= 1\n    p /= 1\n    q |= 1\n    r &= 1\n")
	var ops []string
	for _, tok := range toks {
		if tok.Kind == lexer.Operator {
			ops = append(ops, tok.Text)
		}
	}
	assert.Equal(t, []string{"+=", "-=", "*=", "/=", "|=", "&="}, ops)
}

func TestTokenize_BareAmpersandRejected(t *testing.T) {
	unit := source.New("<test>", "A():\n    m & 1\n")
	_, err := lexer.New(unit).Tokenize()
	require.Error(t, err)
}

func TestTokenize_HexAndFloatLiterals(t *testing.T) {
	toks := tokenize(t, "A():\n    m : int = 0x1F\n    f : float = 1.5e-3\n")
	var intText, floatText string
	for _, tok := range toks {
		switch tok.Kind {
		case lexer.Int:
			intText = tok.Text
		case lexer.Float:
			floatText = tok.Text
		}
	}
	assert.Equal(t, "0x1F", intText)
	assert.Equal(t, "1.5e-3", floatText)
}

func TestTokenize_SignedNumericLiterals(t *testing.T) {
	toks := tokenize(t, "A():\n    m : int = -5\n    f : float = +1.5\n")
	var kinds []lexer.Kind
	var texts []string
	for _, tok := range toks {
		if tok.Kind == lexer.Int || tok.Kind == lexer.Float || tok.Kind == lexer.Operator {
			kinds = append(kinds, tok.Kind)
			texts = append(texts, tok.Text)
		}
	}
	assert.Equal(t, []lexer.Kind{lexer.Operator, lexer.Int, lexer.Operator, lexer.Float}, kinds)
	assert.Equal(t, []string{"=", "-5", "=", "+1.5"}, texts)
}

func TestTokenize_SpacedSignIsStillAnOperator(t *testing.T) {
	toks := tokenize(t, "A():\n    m += 1\n")
	var ops []string
	for _, tok := range toks {
		if tok.Kind == lexer.Operator {
			ops = append(ops, tok.Text)
		}
	}
	assert.Equal(t, []string{"+="}, ops)
}

func TestTokenize_IntegerOverflow(t *testing.T) {
	unit := source.New("<test>", "A():\n    m : int = 99999999999999999999\n")
	_, err := lexer.New(unit).Tokenize()
	require.Error(t, err)
	le, ok := err.(*langerr.LangError)
	require.True(t, ok)
	assert.Equal(t, langerr.Tokenize, le.Kind)
}
