// Package cursor tracks a selection and its scroll window over a list
// whose length and viewport height change under it.
package cursor

// Cursor is a selected index plus the first visible index. List length
// and viewport height are passed in on every call.
type Cursor struct {
	pos    int
	offset int
	margin int // rows kept visible above and below the selection
}

// New creates a cursor keeping margin rows of context around the selection.
func New(margin int) Cursor {
	return Cursor{margin: max(margin, 0)}
}

// Pos returns the selected index.
func (c Cursor) Pos() int {
	return c.pos
}

// Offset returns the first visible index.
func (c Cursor) Offset() int {
	return c.offset
}

// Move shifts the selection by delta, clamped to the list.
func (c *Cursor) Move(delta, n, height int) {
	c.Jump(c.pos+delta, n, height)
}

// Jump selects index i, clamped to the list.
func (c *Cursor) Jump(i, n, height int) {
	if n == 0 {
		c.pos, c.offset = 0, 0
		return
	}
	c.pos = min(max(i, 0), n-1)
	c.Fit(n, height)
}

// Fit clamps the selection to a list that may have shrunk and scrolls so
// it stays on screen with its margin.
func (c *Cursor) Fit(n, height int) {
	if n == 0 {
		c.pos, c.offset = 0, 0
		return
	}
	c.pos = min(max(c.pos, 0), n-1)
	if height <= 0 {
		return
	}
	// a margin larger than half the viewport would make scrolling oscillate
	m := min(c.margin, (height-1)/2)
	if c.pos < c.offset+m {
		c.offset = c.pos - m
	}
	if c.pos > c.offset+height-1-m {
		c.offset = c.pos - height + 1 + m
	}
	c.offset = min(max(c.offset, 0), max(n-height, 0))
}

// Visible returns the half-open range of indices on screen.
func (c Cursor) Visible(n, height int) (start, end int) {
	if n == 0 || height <= 0 {
		return 0, 0
	}
	return c.offset, min(c.offset+height, n)
}

// At maps a viewport row to a list index. ok is false past the end.
func (c Cursor) At(row, n int) (int, bool) {
	i := c.offset + row
	return i, row >= 0 && i < n
}
