package parser

import "github.com/loomlang/loom/internal/lexer"

// Cursor is a rewindable index into a flat token stream. Precedence
// climbing and the expression-alternative tries in this package commit to
// a parse speculatively and roll back to a marked position on failure,
// so the cursor exposes Mark/Reset rather than any push/pop stack — see
// SPEC_FULL.md §4.4 and §9's note against exception-based backtracking.
type Cursor struct {
	tokens []lexer.Token
	pos    int
}

// NewCursor wraps a token slice (as produced by lexer.Tokenize) for parsing.
func NewCursor(tokens []lexer.Token) *Cursor {
	return &Cursor{tokens: tokens}
}

// Peek returns the token offset positions ahead of the cursor without
// consuming anything. Peek(0) is the current token.
func (c *Cursor) Peek(offset int) lexer.Token {
	idx := c.pos + offset
	if idx < 0 || idx >= len(c.tokens) {
		return c.tokens[len(c.tokens)-1] // EOF sentinel
	}
	return c.tokens[idx]
}

// Current returns the token under the cursor.
func (c *Cursor) Current() lexer.Token { return c.Peek(0) }

// Next returns the current token and advances the cursor by one, unless
// already at EOF.
func (c *Cursor) Next() lexer.Token {
	tok := c.Current()
	if tok.Type != lexer.EOF {
		c.pos++
	}
	return tok
}

// TryMatch consumes and returns the current token if it has the given
// type, reporting whether it did.
func (c *Cursor) TryMatch(t lexer.TokenType) (lexer.Token, bool) {
	if c.Current().Type == t {
		return c.Next(), true
	}
	return lexer.Token{}, false
}

// Mark returns a checkpoint that Reset can later rewind to.
func (c *Cursor) Mark() int { return c.pos }

// Reset rewinds the cursor to a previously taken Mark.
func (c *Cursor) Reset(mark int) { c.pos = mark }

// AtEOF reports whether the cursor has reached the end of the stream.
func (c *Cursor) AtEOF() bool { return c.Current().Type == lexer.EOF }
