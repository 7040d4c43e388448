package tree

import "strings"

var bracketTokens = map[string]string{
	"-LRB-": "(",
	"-RRB-": ")",
	"-LSB-": "[",
	"-RSB-": "]",
	"-LCB-": "{",
	"-RCB-": "}",
}

// attachLeft tokens are written without a space before them
var attachLeft = map[string]bool{
	",": true, ".": true, ";": true, ":": true, "!": true, "?": true,
	"%": true, ")": true, "]": true, "}": true, "...": true,
	"'s": true, "'S": true, "'": true, "n't": true, "N'T": true,
	"'re": true, "'ve": true, "'ll": true, "'d": true, "'m": true,
}

// attachRight tokens are written without a space after them
var attachRight = map[string]bool{
	"(": true, "[": true, "{": true, "$": true, "#": true,
}

// Detokenize joins Treebank tokens back into running text, re-attaching
// punctuation, clitics and brackets.
func Detokenize(tokens []string) string {
	var b strings.Builder
	glue := true
	openQuote := false

	for _, tok := range tokens {
		if mapped, ok := bracketTokens[tok]; ok {
			tok = mapped
		}

		switch tok {
		case "``":
			tok = `"`
			openQuote = true
		case "''":
			tok = `"`
			openQuote = false
		case `"`:
			openQuote = !openQuote
		}

		isQuote := tok == `"`
		noSpaceBefore := attachLeft[tok] || (isQuote && !openQuote)
		if !glue && !noSpaceBefore {
			b.WriteByte(' ')
		}
		b.WriteString(tok)
		glue = attachRight[tok] || (isQuote && openQuote)
	}

	return b.String()
}
