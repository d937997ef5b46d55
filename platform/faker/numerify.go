package faker

import "strings"

// Placeholder characters understood by Compile.
const (
	DigitPlaceholder        = '#'
	NonZeroDigitPlaceholder = '%'
)

// TokenKind is the closed set of template token kinds.
type TokenKind int

const (
	// TokenLiteral copies its character into the output unchanged.
	TokenLiteral TokenKind = iota
	// TokenDigit yields one uniform digit 0-9.
	TokenDigit
	// TokenNonZeroDigit yields one uniform digit 1-9.
	TokenNonZeroDigit
)

// Token is a single compiled template position.
type Token struct {
	Kind    TokenKind
	Literal rune
}

// Template is a compiled numerify pattern.
type Template struct {
	tokens []Token
}

// Compile tokenizes pattern. Every rune other than the placeholders is a literal.
func Compile(pattern string) Template {
	tokens := make([]Token, 0, len(pattern))
	for _, r := range pattern {
		switch r {
		case DigitPlaceholder:
			tokens = append(tokens, Token{Kind: TokenDigit})
		case NonZeroDigitPlaceholder:
			tokens = append(tokens, Token{Kind: TokenNonZeroDigit})
		default:
			tokens = append(tokens, Token{Kind: TokenLiteral, Literal: r})
		}
	}
	return Template{tokens: tokens}
}

// Expand substitutes every placeholder with an independent draw from src.
// Nonzero digits are drawn first, then the digit placeholders are handed to
// src.Numerify in one pass.
func (t Template) Expand(src Source) string {
	var b strings.Builder
	b.Grow(len(t.tokens))
	for _, tok := range t.tokens {
		switch tok.Kind {
		case TokenDigit:
			b.WriteRune(DigitPlaceholder)
		case TokenNonZeroDigit:
			b.WriteByte(byte('1' + src.Intn(9)))
		default:
			b.WriteRune(tok.Literal)
		}
	}
	return src.Numerify(b.String())
}

// String renders the template back to its pattern form.
func (t Template) String() string {
	var b strings.Builder
	for _, tok := range t.tokens {
		switch tok.Kind {
		case TokenDigit:
			b.WriteRune(DigitPlaceholder)
		case TokenNonZeroDigit:
			b.WriteRune(NonZeroDigitPlaceholder)
		default:
			b.WriteRune(tok.Literal)
		}
	}
	return b.String()
}

// Len returns the number of positions, literals included.
func (t Template) Len() int {
	return len(t.tokens)
}

// Placeholders returns the number of randomized positions.
func (t Template) Placeholders() int {
	n := 0
	for _, tok := range t.tokens {
		if tok.Kind != TokenLiteral {
			n++
		}
	}
	return n
}

// Tokens returns a copy of the compiled tokens.
func (t Template) Tokens() []Token {
	out := make([]Token, len(t.tokens))
	copy(out, t.tokens)
	return out
}
