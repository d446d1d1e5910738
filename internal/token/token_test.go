package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeywordsCoverSixteenReservedWords(t *testing.T) {
	require.Len(t, Keywords, 16)
	for _, word := range []string{
		"use", "def", "pub", "ret", "and", "end", "if", "ef",
		"nf", "for", "do", "out", "tin", "new", "mod", "as",
	} {
		_, ok := Keywords[word]
		require.Truef(t, ok, "missing keyword %q", word)
	}
}

func TestKindStringKnownAndUnknown(t *testing.T) {
	require.Equal(t, "PLUS", PLUS.String())
	require.Equal(t, "UNKNOWN", Kind(9999).String())
}

func TestTokenString(t *testing.T) {
	tok := Token{Kind: IDENT, Literal: "x", Line: 3}
	require.Equal(t, `IDENT "x" line=3`, tok.String())
}
