package login

import (
	"strings"
	"sync"
)

// CodeLength is the number of digits in a verification code.
const CodeLength = 6

// CodeInput models the six single-digit cells of the code entry screen.
// It is safe for concurrent use.
type CodeInput struct {
	mu     sync.Mutex
	cells  [CodeLength]byte
	cursor int
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// Type writes a digit into the current cell and advances the cursor.
// Anything but an ASCII digit is ignored.
func (c *CodeInput) Type(r rune) {
	if !isDigit(r) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cells[c.cursor] = byte(r)
	if c.cursor < CodeLength-1 {
		c.cursor++
	}
}

// Backspace clears the current cell, or moves the cursor back one cell
// when the current cell is already empty.
func (c *CodeInput) Backspace() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cells[c.cursor] != 0 {
		c.cells[c.cursor] = 0
		return
	}
	if c.cursor > 0 {
		c.cursor--
	}
}

// Paste spreads up to six digits across the cells from the first one.
// Input containing a non-digit in its first six characters is ignored.
func (c *CodeInput) Paste(s string) {
	s = strings.TrimSpace(s)
	if len(s) > CodeLength {
		s = s[:CodeLength]
	}
	if s == "" {
		return
	}
	for _, r := range s {
		if !isDigit(r) {
			return
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := 0; i < len(s); i++ {
		c.cells[i] = s[i]
	}
	c.cursor = min(len(s), CodeLength-1)
}

func (c *CodeInput) Value() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	for _, d := range c.cells {
		if d != 0 {
			b.WriteByte(d)
		}
	}
	return b.String()
}

func (c *CodeInput) Complete() bool {
	return len(c.Value()) == CodeLength
}

// Cursor is the index of the focused cell.
func (c *CodeInput) Cursor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

func (c *CodeInput) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cells = [CodeLength]byte{}
	c.cursor = 0
}
