package cube

// keyword recognition follows the scheme implemented by the original
// C sources' keywords.c: each keyword carries a pre-computed hash
// under the universal string-hash family from "Algorithms in C",
// and an identifier is promoted to a keyword only when its hash
// matches *and* its spelling matches byte-for-byte (guards against
// collisions).

const (
	hashA   = 31415
	hashB   = 27183
	hashMax = 7919
)

type keyword struct {
	kind TokenKind
	hash int
	word string
}

// keywordTable lists the 23 keywords carried over from the original
// implementation, the two extra reserved words ("print", "var")
// belonging to the final revision of the language, and the two
// infix-operator keywords ("and", "or") the Pratt table needs
// recognized as their own token kinds rather than plain identifiers.
// Hashes are computed once here from each spelling with keywordHash,
// the same function findKeyword applies to a candidate identifier;
// TestKeywordHashesMatchRecurrence checks every stored hash against it.
var keywordTable = buildKeywordTable()

func buildKeywordTable() []keyword {
	words := []struct {
		kind TokenKind
		word string
	}{
		{TOKEN_BEGIN, "begin"},
		{TOKEN_BREAK, "break"},
		{TOKEN_CASE, "case"},
		{TOKEN_CLASS, "class"},
		{TOKEN_DEF, "def"},
		{TOKEN_DO, "do"},
		{TOKEN_ELSE, "else"},
		{TOKEN_END, "end"},
		{TOKEN_ENSURE, "ensure"},
		{TOKEN_FALSE, "false"},
		{TOKEN_IF, "if"},
		{TOKEN_IMPORT, "import"},
		{TOKEN_NEXT, "next"},
		{TOKEN_NIL, "nil"},
		{TOKEN_RESCUE, "rescue"},
		{TOKEN_RETURN, "return"},
		{TOKEN_SUPER, "super"},
		{TOKEN_SWITCH, "switch"},
		{TOKEN_THIS, "this"},
		{TOKEN_TRUE, "true"},
		{TOKEN_UNLESS, "unless"},
		{TOKEN_UNTIL, "until"},
		{TOKEN_WHILE, "while"},
		{TOKEN_PRINT, "print"},
		{TOKEN_VAR, "var"},
		{TOKEN_AND, "and"},
		{TOKEN_OR, "or"},
	}

	table := make([]keyword, len(words))
	longest := 0
	for i, w := range words {
		table[i] = keyword{kind: w.kind, hash: keywordHash(w.word), word: w.word}
		if len(w.word) > longest {
			longest = len(w.word)
		}
	}
	longestKeyword = longest
	return table
}

var longestKeyword int

// keywordHash implements the a/b multiply-accumulate recurrence from
// spec.md 4.2: a <- a*b mod (m-1) between characters, h <- (a*h + c) mod m.
func keywordHash(word string) int {
	a, h := hashA, 0
	for i := 0; i < len(word); i++ {
		h = (a*h + int(word[i])) % hashMax
		a = a * hashB % (hashMax - 1)
	}
	return h
}

// findKeyword maps an identifier's text to a keyword TokenKind, or
// reports ok=false when the text is an ordinary identifier.
func findKeyword(text string) (TokenKind, bool) {
	if len(text) == 0 || len(text) > longestKeyword {
		return TOKEN_IDENTIFIER, false
	}
	h := keywordHash(text)
	for _, kw := range keywordTable {
		if kw.hash == h {
			if kw.word == text {
				return kw.kind, true
			}
			// hash collision with a non-matching spelling: keep
			// scanning, another keyword might share this hash.
			continue
		}
	}
	return TOKEN_IDENTIFIER, false
}
