package lexer

import (
	"github.com/nyan-lang/nyan/pkgs/langerr"
	"github.com/nyan-lang/nyan/pkgs/source"
)

// Cursor is a forward-only view over a token slice. It never indexes
// past the end: once the stream is exhausted, Next/Peek report an
// ASTError("unexpected end of file") anchored at the last known
// location instead of panicking.
type Cursor struct {
	unit   *source.Unit
	tokens []Token
	pos    int
}

// NewCursor wraps tokens (expected to end in an EndFile token) for a
// given source unit.
func NewCursor(unit *source.Unit, tokens []Token) *Cursor {
	return &Cursor{unit: unit, tokens: tokens}
}

// Next returns the current token and advances the cursor.
func (c *Cursor) Next() (Token, error) {
	t, err := c.Peek()
	if err != nil {
		return Token{}, err
	}
	c.pos++
	return t, nil
}

// Peek returns the current token without advancing.
func (c *Cursor) Peek() (Token, error) {
	if c.pos >= len(c.tokens) {
		return Token{}, c.eofError()
	}
	return c.tokens[c.pos], nil
}

// PeekAt returns the token offset tokens ahead of the cursor, without
// advancing. offset 0 is equivalent to Peek.
func (c *Cursor) PeekAt(offset int) (Token, error) {
	i := c.pos + offset
	if i >= len(c.tokens) {
		return Token{}, c.eofError()
	}
	return c.tokens[i], nil
}

// AtEnd reports whether the cursor has reached EndFile.
func (c *Cursor) AtEnd() bool {
	t, err := c.Peek()
	return err != nil || t.Kind == EndFile
}

func (c *Cursor) eofError() error {
	loc := source.Location{Unit: c.unit, Line: 1, Column: 1}
	if len(c.tokens) > 0 {
		last := c.tokens[len(c.tokens)-1]
		loc = source.Location{Unit: c.unit, Line: last.Line, Column: last.Column}
	}
	return langerr.New(langerr.AST, loc, "unexpected end of file")
}
