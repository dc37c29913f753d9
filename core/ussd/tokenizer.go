package ussd

import "strings"

// tokenDelimiter separates the inputs a subscriber has entered so far in
// the dialog. The gateway concatenates every input into a single text field.
const tokenDelimiter = "*"

// Tokenize splits the raw gateway text field into the ordered list of all
// inputs entered in this dialog. Empty text yields an empty slice, which
// signals the first turn. Tokens are trimmed but otherwise untouched; empty
// tokens are preserved so positions stay aligned with gateway turns.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	tokens := strings.Split(text, tokenDelimiter)
	for i, tok := range tokens {
		tokens[i] = strings.TrimSpace(tok)
	}
	return tokens
}

// LatestInput returns the most recent input of the dialog, or the empty
// string on the first turn.
func LatestInput(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	return tokens[len(tokens)-1]
}
