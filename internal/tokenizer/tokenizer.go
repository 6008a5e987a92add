// Package tokenizer splits field text into tokens that keep their position
// and byte offsets in the original text, so matches can be mapped back for
// highlighting.
package tokenizer

import (
	"strings"
	"unicode"
)

// Token is a single term occurrence in a piece of field text. Offsets are
// byte offsets into the original (untransformed) text; EndOffset is
// exclusive. Position counts tokens from zero.
type Token struct {
	Term        string
	Position    int
	StartOffset int
	EndOffset   int
}

// Tokenize splits text on non-alphanumeric runes and lowercases each token.
// Splitting happens on the original text so the reported offsets always
// point at the exact bytes the token came from.
func Tokenize(text string) []Token {
	tokens := make([]Token, 0)

	start := -1
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = appendToken(tokens, text, start, i)
			start = -1
		}
	}
	if start >= 0 {
		tokens = appendToken(tokens, text, start, len(text))
	}
	return tokens
}

func appendToken(tokens []Token, text string, start, end int) []Token {
	return append(tokens, Token{
		Term:        strings.ToLower(text[start:end]),
		Position:    len(tokens),
		StartOffset: start,
		EndOffset:   end,
	})
}
