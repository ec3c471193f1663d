package mock

import "github.com/fwojciec/mergeguard"

// Compile-time interface verification.
var _ mergeguard.Tokenizer = (*Tokenizer)(nil)

// Tokenizer is a mock implementation of mergeguard.Tokenizer.
type Tokenizer struct {
	TokenizeFn func(language, source string) []mergeguard.Token
}

func (t *Tokenizer) Tokenize(language, source string) []mergeguard.Token {
	return t.TokenizeFn(language, source)
}
