package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drift-lang/drift/internal/exception"
	"github.com/drift-lang/drift/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestScanArithmeticAndPrecedenceTokens(t *testing.T) {
	toks, err := New([]byte("def x: int = 3 + 4 * 2")).Scan()
	require.NoError(t, err)
	require.Equal(t, []token.Kind{
		token.DEF, token.IDENT, token.COLON, token.IDENT, token.EQ,
		token.NUMBER, token.PLUS, token.NUMBER, token.STAR, token.NUMBER,
		token.EOF,
	}, kinds(toks))
}

func TestScanMaximalMunchCompoundOperators(t *testing.T) {
	toks, err := New([]byte("+= -> -= <- <= <~ == !=")).Scan()
	require.NoError(t, err)
	require.Equal(t, []token.Kind{
		token.PLUS_EQ, token.R_ARROW, token.MINUS_EQ, token.L_ARROW,
		token.LESS_EQ, token.L_CURVE, token.EQ_EQ, token.BANG_EQ, token.EOF,
	}, kinds(toks))
}

func TestScanFloatVsInteger(t *testing.T) {
	toks, err := New([]byte("1 1.5 1.")).Scan()
	require.NoError(t, err)
	require.Equal(t, token.NUMBER, toks[0].Kind)
	require.Equal(t, "1", toks[0].Literal)
	require.Equal(t, token.FLOAT, toks[1].Kind)
	require.Equal(t, "1.5", toks[1].Literal)
	// a trailing dot with no following digit does not promote to float.
	require.Equal(t, token.NUMBER, toks[2].Kind)
	require.Equal(t, "1", toks[2].Literal)
	require.Equal(t, token.DOT, toks[3].Kind)
}

func TestScanShortStringNewlineIsError(t *testing.T) {
	_, err := New([]byte("\"line one\nline two\"")).Scan()
	require.Error(t, err)
	exc, ok := err.(*exception.Exception)
	require.True(t, ok)
	require.Equal(t, exception.StringExp, exc.Kind)
}

func TestScanLongStringSpansNewlinesAndCarriesSentinel(t *testing.T) {
	toks, err := New([]byte("`a\nb`")).Scan()
	require.NoError(t, err)
	require.Equal(t, token.STRING, toks[0].Kind)
	stripped, isLong := StripLongFlag(toks[0].Literal)
	require.True(t, isLong)
	require.Equal(t, "a\nb", stripped)
}

func TestScanCharLiteral(t *testing.T) {
	toks, err := New([]byte("'a'")).Scan()
	require.NoError(t, err)
	require.Equal(t, token.CHAR, toks[0].Kind)
	require.Equal(t, "a", toks[0].Literal)
}

func TestScanCharLiteralEmptyIsError(t *testing.T) {
	_, err := New([]byte("''")).Scan()
	require.Error(t, err)
	exc, ok := err.(*exception.Exception)
	require.True(t, ok)
	require.Equal(t, exception.CharacterExp, exc.Kind)
}

func TestScanUnknownSymbol(t *testing.T) {
	_, err := New([]byte("@")).Scan()
	require.Error(t, err)
	exc, ok := err.(*exception.Exception)
	require.True(t, ok)
	require.Equal(t, exception.UnknownSymbol, exc.Kind)
}

func TestScanSkipsLineAndBlockComments(t *testing.T) {
	toks, err := New([]byte("1 // trailing comment\n/* block\ncomment */ 2")).Scan()
	require.NoError(t, err)
	require.Equal(t, []token.Kind{token.NUMBER, token.NUMBER, token.EOF}, kinds(toks))
	require.Equal(t, "1", toks[0].Literal)
	require.Equal(t, "2", toks[1].Literal)
}

func TestScanTracksLineNumbersAcrossNewlines(t *testing.T) {
	toks, err := New([]byte("1\n2\n3")).Scan()
	require.NoError(t, err)
	require.Equal(t, 1, toks[0].Line)
	require.Equal(t, 2, toks[1].Line)
	require.Equal(t, 3, toks[2].Line)
}

func TestScanEmptySourceYieldsOnlyEOF(t *testing.T) {
	toks, err := New([]byte("")).Scan()
	require.NoError(t, err)
	require.Len(t, toks, 1)
	require.Equal(t, token.EOF, toks[0].Kind)
}

func TestScanKeywordsResolveAgainstIdentifiers(t *testing.T) {
	toks, err := New([]byte("for foreign")).Scan()
	require.NoError(t, err)
	require.Equal(t, token.FOR, toks[0].Kind)
	require.Equal(t, token.IDENT, toks[1].Kind)
	require.Equal(t, "foreign", toks[1].Literal)
}
