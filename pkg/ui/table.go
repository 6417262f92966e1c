package ui

import (
	"github.com/xkilldash9x/pomkit/pkg/locator"
)

// Table is a react-table style grid. Region accessors derive new specs and
// never change the table's own spec, so they can be called in any order.
type Table struct {
	Control
	composer locator.Composer
}

// NewTable uses locator.DefaultComposer.
func NewTable(f Finder, spec locator.Spec) *Table {
	return NewTableWithComposer(f, spec, locator.DefaultComposer)
}

// NewTableWithComposer uses c for markup that differs from react-table.
func NewTableWithComposer(f Finder, spec locator.Spec, c locator.Composer) *Table {
	return &Table{Control: newControl(f, spec), composer: c}
}

// derive composes region under base. A failure is kept in the result and
// reported by its first operation.
func derive(base Control, c locator.Composer, region locator.Region) Control {
	if base.err != nil {
		return base
	}
	spec, err := c.Compose(base.spec, region)
	return Control{finder: base.finder, spec: spec, err: err}
}

type Header struct {
	Control
	composer locator.Composer
}

type Body struct {
	Control
	composer locator.Composer
}

type Row struct{ Control }

type Column struct{ Control }

type Cell struct{ Control }

func (t *Table) Header() *Header {
	return &Header{derive(t.Control, t.composer, locator.Header()), t.composer}
}

func (t *Table) Body() *Body {
	return &Body{derive(t.Control, t.composer, locator.Body()), t.composer}
}

// Column is 1-based.
func (h *Header) Column(n int) *Column {
	return &Column{derive(h.Control, h.composer, locator.Column(n))}
}

// Row is 1-based.
func (b *Body) Row(n int) *Row {
	return &Row{derive(b.Control, b.composer, locator.Row(n))}
}

// Cell is 1-based in both dimensions.
func (b *Body) Cell(row, col int) *Cell {
	return &Cell{derive(b.Control, b.composer, locator.Cell(row, col))}
}
