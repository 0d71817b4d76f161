package selection

import (
	"cmp"
	"slices"

	"github.com/dshills/gridkit/internal/grid/cellrange"
	"github.com/dshills/gridkit/internal/grid/surface"
)

// EqualizeSelection rewrites the selection into pairwise non-intersecting
// ranges of identical column span and returns them sorted by bottom row, then
// top row. It returns false without touching the selection when the mode is
// not MultiRange, or when the checkbox row header is on and any row is
// checked.
func (e *Engine) EqualizeSelection() ([]cellrange.Public, bool) {
	if e.surface.SelectionMode() != surface.SelectionMultiRange || (e.hasCheckbox && e.HasCheckedRows()) {
		return nil, false
	}

	leftCol, rightCol := e.maxCol(), -1
	for _, r := range e.ProviderRanges() {
		leftCol = min(leftCol, r.Col, r.Col2)
		rightCol = max(rightCol, r.Col, r.Col2)
	}

	h := e.surface.Selection()
	// The active range goes first so it is never the one merged away.
	all := append([]cellrange.CellRange{h.ActiveSelection()}, h.ExtendedSelections()...)
	for i := range all {
		all[i].SetRange(all[i].TopRow(), leftCol, all[i].BottomRow(), rightCol)
	}

	removed := make([]bool, len(all))
	merged := 0
	for i := range all {
		if removed[i] {
			continue
		}
		// Rescan after every merge: a grown range may reach one skipped earlier.
		for grew := true; grew; {
			grew = false
			for j := i + 1; j < len(all); j++ {
				if removed[j] || !all[i].Intersects(all[j]) {
					continue
				}
				c := all[i].Combine(all[j])
				all[i].SetRange(c.Row, c.Col, c.Row2, c.Col2)
				removed[j] = true
				merged++
				grew = true
			}
		}
	}

	h.SetActiveBounds(all[0])
	for j := 1; j < len(all); j++ {
		h.SetExtendedBounds(j-1, all[j])
	}
	for j := len(all) - 1; j >= 1; j-- {
		if removed[j] {
			h.RemoveExtendedAt(j - 1)
		}
	}

	ranges := e.surface.SelectedRanges()
	slices.SortStableFunc(ranges, func(a, b cellrange.CellRange) int {
		return cmp.Or(cmp.Compare(a.BottomRow(), b.BottomRow()), cmp.Compare(a.TopRow(), b.TopRow()))
	})

	out := make([]cellrange.Public, len(ranges))
	for i, r := range ranges {
		out[i] = r.Public()
	}

	e.log.Debug("selection equalized", "ranges", len(out), "merged", merged)
	if e.onEqualize != nil {
		e.onEqualize(merged)
	}
	return out, true
}
