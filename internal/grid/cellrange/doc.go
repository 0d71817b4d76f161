// Package cellrange provides the rectangular cell range value used by the
// selection and row-mutation features.
//
// A CellRange stores two corners: the head (Row, Col), which is the cell the
// pointer was last released on, and the anchor (Row2, Col2), where the gesture
// started. The normalized bounds are exposed through TopRow, LeftCol,
// BottomRow and RightCol, all inclusive and 0-based.
//
// A bound of -1 is the "whole axis" sentinel. Ranges with any negative bound
// are not valid and never intersect anything; callers filter them out before
// doing geometry.
//
// Basic usage:
//
//	a := cellrange.New(0, 0, 0, 4)
//	b := cellrange.New(0, 2, 0, 6)
//	if a.Intersects(b) {
//	    a = a.Combine(b) // (0,0)-(0,6)
//	}
//
// CellRange is a value type and safe to copy. SetRange is the only mutating
// operation and requires a pointer.
package cellrange
