package cellrange

import "fmt"

// CellRange represents a rectangular range of cells.
// (Row, Col) is the head, (Row2, Col2) the anchor.
type CellRange struct {
	Row  int // Head row
	Col  int // Head column
	Row2 int // Anchor row
	Col2 int // Anchor column
}

// New creates a range from head (row, col) to anchor (row2, col2).
func New(row, col, row2, col2 int) CellRange {
	return CellRange{Row: row, Col: col, Row2: row2, Col2: col2}
}

// FromCoordinates creates a single-cell range.
func FromCoordinates(row, col int) CellRange {
	return CellRange{Row: row, Col: col, Row2: row, Col2: col}
}

// FullRow creates a range spanning columns 0..maxCol of a single row.
func FullRow(row, maxCol int) CellRange {
	return CellRange{Row: row, Col: 0, Row2: row, Col2: maxCol}
}

// Invalid returns the empty sentinel range.
func Invalid() CellRange {
	return CellRange{Row: -1, Col: -1, Row2: -1, Col2: -1}
}

// TopRow returns the smallest row index of the range.
func (r CellRange) TopRow() int {
	return min(r.Row, r.Row2)
}

// BottomRow returns the largest row index of the range.
func (r CellRange) BottomRow() int {
	return max(r.Row, r.Row2)
}

// LeftCol returns the smallest column index of the range.
func (r CellRange) LeftCol() int {
	return min(r.Col, r.Col2)
}

// RightCol returns the largest column index of the range.
func (r CellRange) RightCol() int {
	return max(r.Col, r.Col2)
}

// RowCount returns the number of rows covered.
func (r CellRange) RowCount() int {
	return r.BottomRow() - r.TopRow() + 1
}

// ColCount returns the number of columns covered.
func (r CellRange) ColCount() int {
	return r.RightCol() - r.LeftCol() + 1
}

// IsValid returns true if every bound is non-negative.
func (r CellRange) IsValid() bool {
	return r.Row > -1 && r.Col > -1 && r.Row2 > -1 && r.Col2 > -1
}

// IsSingleCell returns true if head and anchor are the same cell.
func (r CellRange) IsSingleCell() bool {
	return r.Row == r.Row2 && r.Col == r.Col2
}

// ContainsCell returns true if the cell lies inside the range.
func (r CellRange) ContainsCell(row, col int) bool {
	return r.ContainsRow(row) && r.ContainsColumn(col)
}

// ContainsRow returns true if the row lies inside the range's row span.
func (r CellRange) ContainsRow(row int) bool {
	return row >= r.TopRow() && row <= r.BottomRow()
}

// ContainsColumn returns true if the column lies inside the range's column span.
func (r CellRange) ContainsColumn(col int) bool {
	return col >= r.LeftCol() && col <= r.RightCol()
}

// Contains returns true if other lies entirely inside r.
func (r CellRange) Contains(other CellRange) bool {
	if !r.IsValid() || !other.IsValid() {
		return false
	}
	return other.TopRow() >= r.TopRow() && other.BottomRow() <= r.BottomRow() &&
		other.LeftCol() >= r.LeftCol() && other.RightCol() <= r.RightCol()
}

// IntersectsRow returns true if the row spans overlap (inclusive).
func (r CellRange) IntersectsRow(other CellRange) bool {
	return !(r.BottomRow() < other.TopRow() || r.TopRow() > other.BottomRow())
}

// IntersectsColumn returns true if the column spans overlap (inclusive).
func (r CellRange) IntersectsColumn(other CellRange) bool {
	return !(r.RightCol() < other.LeftCol() || r.LeftCol() > other.RightCol())
}

// Intersects returns true if the rectangles overlap (inclusive).
// Invalid ranges never intersect.
func (r CellRange) Intersects(other CellRange) bool {
	if !r.IsValid() || !other.IsValid() {
		return false
	}
	return r.IntersectsRow(other) && r.IntersectsColumn(other)
}

// Combine returns the bounding rectangle of both ranges.
// The result is normalized: head at top-left, anchor at bottom-right.
func (r CellRange) Combine(other CellRange) CellRange {
	return CellRange{
		Row:  min(r.TopRow(), other.TopRow()),
		Col:  min(r.LeftCol(), other.LeftCol()),
		Row2: max(r.BottomRow(), other.BottomRow()),
		Col2: max(r.RightCol(), other.RightCol()),
	}
}

// SetRange replaces the bounds in place.
func (r *CellRange) SetRange(top, left, bottom, right int) {
	r.Row = top
	r.Col = left
	r.Row2 = bottom
	r.Col2 = right
}

// Normalize returns the range with head at top-left and anchor at bottom-right.
func (r CellRange) Normalize() CellRange {
	return CellRange{Row: r.TopRow(), Col: r.LeftCol(), Row2: r.BottomRow(), Col2: r.RightCol()}
}

// Equals returns true if both ranges cover the same cells.
func (r CellRange) Equals(other CellRange) bool {
	return r.TopRow() == other.TopRow() && r.BottomRow() == other.BottomRow() &&
		r.LeftCol() == other.LeftCol() && r.RightCol() == other.RightCol()
}

// Public converts the range to the representation handed to page logic.
func (r CellRange) Public() Public {
	return Public{
		TopRowIndex:      r.TopRow(),
		LeftColumnIndex:  r.LeftCol(),
		BottomRowIndex:   r.BottomRow(),
		RightColumnIndex: r.RightCol(),
	}
}

// String returns a human-readable representation of the range.
func (r CellRange) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.TopRow(), r.LeftCol(), r.BottomRow(), r.RightCol())
}

// Public is the normalized range shape exposed across the API boundary.
type Public struct {
	TopRowIndex      int `json:"topRowIndex"`
	LeftColumnIndex  int `json:"leftColumnIndex"`
	BottomRowIndex   int `json:"bottomRowIndex"`
	RightColumnIndex int `json:"rightColumnIndex"`
}

// RowCount returns the number of rows covered.
func (p Public) RowCount() int {
	return p.BottomRowIndex - p.TopRowIndex + 1
}

// Range converts back to a CellRange.
func (p Public) Range() CellRange {
	return New(p.TopRowIndex, p.LeftColumnIndex, p.BottomRowIndex, p.RightColumnIndex)
}
