package rows

import (
	"slices"

	"github.com/dshills/gridkit/internal/grid/metadata"
	"github.com/dshills/gridkit/internal/grid/surface"
)

// Row numbers of the class operations are absolute data-source indices.

func (e *Engine) cssClass(row int) *metadata.CSSClass {
	return metadata.GetOrCreate(e.store, row, metadata.LabelCSSClass, func() *metadata.CSSClass {
		return &metadata.CSSClass{}
	})
}

// AddClass adds a class to a row. Adding a class twice keeps one entry.
func (e *Engine) AddClass(row int, class string, refresh bool) {
	if e.cssClass(row).Add(class) {
		e.log.Debug("class added", "row", row, "class", class)
	}
	if refresh {
		e.surface.Invalidate()
	}
}

// RemoveClass removes a class from a row. Missing classes are ignored.
func (e *Engine) RemoveClass(row int, class string, refresh bool) {
	if e.store.Has(row, metadata.LabelCSSClass) && e.cssClass(row).Remove(class) {
		e.log.Debug("class removed", "row", row, "class", class)
	}
	if refresh {
		e.surface.Invalidate()
	}
}

// ClearClasses removes every class of a row.
func (e *Engine) ClearClasses(row int) {
	if e.store.Has(row, metadata.LabelCSSClass) {
		e.cssClass(row).Reset()
	}
	e.surface.Invalidate()
}

// Clear removes the classes of every row.
func (e *Engine) Clear() {
	e.store.ClearProperty(metadata.LabelCSSClass)
	e.surface.Invalidate()
}

// classesAt returns the stored class list of a row without creating one.
func (e *Engine) classesAt(row int) *metadata.CSSClass {
	v, _ := e.store.Get(row, metadata.LabelCSSClass)
	c, _ := v.(*metadata.CSSClass)
	return c
}

// Classes returns a copy of the row's classes.
func (e *Engine) Classes(row int) []string {
	c := e.classesAt(row)
	if c == nil {
		return nil
	}
	return slices.Clone(c.Classes)
}

// onFormatItem hands the row's classes to the surface for every cell.
func (e *Engine) onFormatItem(args *surface.FormatItemArgs) {
	classes := e.Classes(args.Row + e.surface.PageOffset())
	args.Classes = append(args.Classes, classes...)
}
