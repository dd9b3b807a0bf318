package clonebox

import "golang.org/x/net/html"

// RowSet is a snapshot of the rows under a container in document order. It is
// rebuilt from the tree for every operation and must not be kept across
// structural changes.
type RowSet struct {
	rows []*html.Node
}

// NewRowSet wraps an ordered slice of row nodes.
func NewRowSet(rows []*html.Node) RowSet {
	return RowSet{rows: rows}
}

// Len returns the row count.
func (s RowSet) Len() int {
	return len(s.rows)
}

// Rows returns a copy of the row slice.
func (s RowSet) Rows() []*html.Node {
	out := make([]*html.Node, len(s.rows))
	copy(out, s.rows)
	return out
}

// Row returns the row at index i, or nil when out of range.
func (s RowSet) Row(i int) *html.Node {
	if i < 0 || i >= len(s.rows) {
		return nil
	}
	return s.rows[i]
}

// First returns the first row or nil.
func (s RowSet) First() *html.Node {
	return s.Row(0)
}

// Last returns the last row or nil.
func (s RowSet) Last() *html.Node {
	return s.Row(len(s.rows) - 1)
}

// IndexOf returns the position of row, or -1.
func (s RowSet) IndexOf(row *html.Node) int {
	for i, candidate := range s.rows {
		if candidate == row {
			return i
		}
	}
	return -1
}
