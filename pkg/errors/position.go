package errors

// Position represents a specific location in the source code.
// Line and Column are 1-based (Column counts runes), StartPos and EndPos are
// 0-based byte offsets of the offending span.
type Position struct {
	Line     int
	Column   int
	StartPos int
	EndPos   int
}

// IsZero reports whether the position carries no location information.
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}
