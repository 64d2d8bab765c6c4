package cube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, source string) []Token {
	t.Helper()
	s := NewScanner(source, "")
	var toks []Token
	for {
		tok := s.NextToken()
		toks = append(toks, tok)
		if tok.Kind == TOKEN_EOF {
			break
		}
	}
	return toks
}

func TestScannerPunctuationAndKeywords(t *testing.T) {
	toks := scanAll(t, "var x = 1 + 2;")
	kinds := make([]TokenKind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []TokenKind{
		TOKEN_VAR, TOKEN_IDENTIFIER, TOKEN_EQUAL, TOKEN_INTEGER,
		TOKEN_PLUS, TOKEN_INTEGER, TOKEN_SEMICOLON, TOKEN_EOF,
	}, kinds)
}

func TestScannerTwoCharOperators(t *testing.T) {
	cases := []struct {
		source string
		kind   TokenKind
	}{
		{"!=", TOKEN_BANG_EQUAL},
		{"==", TOKEN_EQUAL_EQUAL},
		{">=", TOKEN_GREATER_EQUAL},
		{"<=", TOKEN_LESS_EQUAL},
		{"!", TOKEN_BANG},
		{"=", TOKEN_EQUAL},
		{">", TOKEN_GREATER},
		{"<", TOKEN_LESS},
	}
	for _, c := range cases {
		t.Run(c.source, func(t *testing.T) {
			toks := scanAll(t, c.source)
			require.Len(t, toks, 2)
			assert.Equal(t, c.kind, toks[0].Kind)
		})
	}
}

func TestScannerNumbers(t *testing.T) {
	toks := scanAll(t, "42 3.14 7.")
	require.Len(t, toks, 5)
	assert.Equal(t, TOKEN_INTEGER, toks[0].Kind)
	assert.Equal(t, "42", toks[0].Lexeme)
	assert.Equal(t, TOKEN_REAL, toks[1].Kind)
	assert.Equal(t, "3.14", toks[1].Lexeme)
	// "7." has no digit after the dot, so the dot is not part of the number
	assert.Equal(t, TOKEN_INTEGER, toks[2].Kind)
	assert.Equal(t, "7", toks[2].Lexeme)
}

func TestScannerStrings(t *testing.T) {
	toks := scanAll(t, `"hello world"`)
	require.Len(t, toks, 2)
	assert.Equal(t, TOKEN_STRING, toks[0].Kind)
	assert.Equal(t, "hello world", toks[0].Lexeme)
}

func TestScannerUnterminatedString(t *testing.T) {
	toks := scanAll(t, `"oops`)
	require.Len(t, toks, 2)
	assert.Equal(t, TOKEN_ERROR, toks[0].Kind)
	assert.Equal(t, "Unterminated string.", toks[0].Lexeme)
}

func TestScannerCommentsAndWhitespace(t *testing.T) {
	toks := scanAll(t, "# a comment\n   print 1; # trailing\n")
	require.Len(t, toks, 4)
	assert.Equal(t, TOKEN_PRINT, toks[0].Kind)
	assert.Equal(t, 2, toks[0].Line)
}

func TestScannerLineTracking(t *testing.T) {
	toks := scanAll(t, "a\nb")
	require.Len(t, toks, 3)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[1].Line)
}
