package ui

// NoSelection is the cursor sentinel for "no row selected".
const NoSelection = -1

// Cursor tracks which rendered row is keyboard-focused. The index is only
// meaningful relative to the most recently rendered list, so every operation
// takes the current row count and clamps into it.
type Cursor struct {
	index int
}

// NewCursor returns an unselected cursor.
func NewCursor() Cursor {
	return Cursor{index: NoSelection}
}

// Index returns the current index, or NoSelection.
func (c Cursor) Index() int {
	return c.index
}

// Move shifts the selection by delta. When nothing is selected it enters the
// list at the top for a downward move and at the bottom for an upward move.
// The result is clamped into [0, count-1]; there is no wraparound.
func (c *Cursor) Move(delta, count int) {
	if count <= 0 {
		return
	}
	if c.index == NoSelection {
		if delta > 0 {
			c.index = 0
		} else {
			c.index = count - 1
		}
		return
	}
	c.index = clamp(c.index+delta, 0, count-1)
}

// Set selects an explicit index, clamping into bounds. Negative indexes and
// empty lists clear the selection.
func (c *Cursor) Set(index, count int) {
	if count <= 0 || index < 0 {
		c.index = NoSelection
		return
	}
	c.index = clamp(index, 0, count-1)
}

// Reconcile adjusts the cursor after the rendered list changed size. An
// out-of-range index is clamped to the new last row; the selection is only
// cleared when the list is now empty.
func (c *Cursor) Reconcile(count int) {
	if count <= 0 {
		c.index = NoSelection
		return
	}
	if c.index >= count {
		c.index = count - 1
	}
}

// Selected returns the current index when it is valid for a list of count
// rows. Out-of-range indexes are reported as no selection, never an error.
func (c Cursor) Selected(count int) (int, bool) {
	if c.index < 0 || c.index >= count {
		return NoSelection, false
	}
	return c.index, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
