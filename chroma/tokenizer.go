// Package chroma classifies source code tokens using the chroma lexers.
package chroma

import (
	"strings"

	chromalib "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/fwojciec/mergeguard"
)

// Compile-time interface verification.
var _ mergeguard.Tokenizer = (*Tokenizer)(nil)

// Tokenizer extracts syntax tokens using chroma.
type Tokenizer struct{}

// NewTokenizer creates a new chroma-based tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize splits source into classified tokens for the given language.
// Returns nil if the language is not supported or lexing fails.
// Returns an empty slice for empty source.
func (t *Tokenizer) Tokenize(language, source string) []mergeguard.Token {
	if source == "" {
		return []mergeguard.Token{}
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		return nil
	}
	lexer = chromalib.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return nil
	}

	var tokens []mergeguard.Token
	for token := iterator(); token != chromalib.EOF; token = iterator() {
		tokens = append(tokens, mergeguard.Token{
			Text: token.Value,
			Kind: KindOf(token.Type),
		})
	}
	return trimAddedNewline(tokens, source)
}

// trimAddedNewline drops the newline a lexer appends to input lacking one.
func trimAddedNewline(tokens []mergeguard.Token, source string) []mergeguard.Token {
	if len(tokens) == 0 || strings.HasSuffix(source, "\n") {
		return tokens
	}
	last := &tokens[len(tokens)-1]
	last.Text = strings.TrimSuffix(last.Text, "\n")
	if last.Text == "" {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}
