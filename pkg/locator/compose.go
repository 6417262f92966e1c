// pkg/locator/compose.go
package locator

import (
	"errors"
	"fmt"
)

// RegionKind identifies a structural region inside a tabular widget.
type RegionKind int

const (
	TableHeader RegionKind = iota
	TableBody
	HeaderColumn
	BodyRow
	BodyCell
)

func (k RegionKind) String() string {
	switch k {
	case TableHeader:
		return "header"
	case TableBody:
		return "body"
	case HeaderColumn:
		return "column"
	case BodyRow:
		return "row"
	case BodyCell:
		return "cell"
	}
	return fmt.Sprintf("region(%d)", int(k))
}

// Region is a RegionKind plus its 1-based indices (user-facing row/column numbers).
type Region struct {
	Kind   RegionKind
	Row    int
	Column int
}

func Header() Region { return Region{Kind: TableHeader} }
func Body() Region { return Region{Kind: TableBody} }
func Column(n int) Region { return Region{Kind: HeaderColumn, Column: n} }
func Row(n int) Region { return Region{Kind: BodyRow, Row: n} }
func Cell(row, col int) Region { return Region{Kind: BodyCell, Row: row, Column: col} }

func (r Region) String() string {
	switch r.Kind {
	case HeaderColumn:
		return fmt.Sprintf("column %d", r.Column)
	case BodyRow:
		return fmt.Sprintf("row %d", r.Row)
	case BodyCell:
		return fmt.Sprintf("cell %d,%d", r.Row, r.Column)
	}
	return r.Kind.String()
}

func (r Region) validate() error {
	switch r.Kind {
	case TableHeader, TableBody:
		return nil
	case HeaderColumn:
		if r.Column < 1 {
			return fmt.Errorf("%w: column %d", ErrInvalidIndex, r.Column)
		}
	case BodyRow:
		if r.Row < 1 {
			return fmt.Errorf("%w: row %d", ErrInvalidIndex, r.Row)
		}
	case BodyCell:
		if r.Row < 1 || r.Column < 1 {
			return fmt.Errorf("%w: cell %d,%d", ErrInvalidIndex, r.Row, r.Column)
		}
	default:
		return fmt.Errorf("unknown region kind %d", int(r.Kind))
	}
	return nil
}

// ErrInvalidIndex is returned for row/column numbers below 1.
var ErrInvalidIndex = errors.New("region indices are 1-based")

// UnsupportedCompositionError is returned when a region is derived from a strategy
// that has no nesting rule (id, name, text).
type UnsupportedCompositionError struct {
	Spec   Spec
	Region Region
}

func (e *UnsupportedCompositionError) Error() string {
	return fmt.Sprintf("cannot compose %s region on %q: %s locators do not nest", e.Region, e.Spec.Name(), e.Spec.Strategy())
}

// Composer derives region locators for table-like widgets. The zero value is not
// usable; start from DefaultComposer.
type Composer struct {
	HeaderClass      string
	BodyClass        string
	ColumnRole       string
	RowRole          string
	CellRole         string
	SegmentSeparator string
}

// DefaultComposer matches react-table markup.
var DefaultComposer = Composer{
	HeaderClass:      "rt-thead",
	BodyClass:        "rt-tbody",
	ColumnRole:       "columnheader",
	RowRole:          "rowgroup",
	CellRole:         "gridcell",
	SegmentSeparator: " > ",
}

// Compose derives a region locator from base using DefaultComposer.
func Compose(base Spec, region Region) (Spec, error) {
	return DefaultComposer.Compose(base, region)
}

// Compose returns a new Spec scoped to region under base. base is never modified,
// so one base can feed any number of sibling accessors.
func (c Composer) Compose(base Spec, region Region) (Spec, error) {
	if !base.strategy.Composable() {
		return Spec{}, &UnsupportedCompositionError{Spec: base, Region: region}
	}
	if err := region.validate(); err != nil {
		return Spec{}, err
	}

	var value string
	if base.strategy == Css {
		value = c.css(base.value, region)
	} else {
		value = c.xpath(base.value, region)
	}
	return base.withValue(base.name+c.SegmentSeparator+region.String(), value), nil
}

// css and xpath nth-selection are both 1-based, so user indices pass through unchanged.
func (c Composer) css(b string, r Region) string {
	switch r.Kind {
	case TableHeader:
		return fmt.Sprintf("%s .%s", b, c.HeaderClass)
	case TableBody:
		return fmt.Sprintf("%s .%s", b, c.BodyClass)
	case HeaderColumn:
		return fmt.Sprintf("%s [role='%s']:nth-child(%d)", b, c.ColumnRole, r.Column)
	case BodyRow:
		return fmt.Sprintf("%s [role='%s']:nth-child(%d)", b, c.RowRole, r.Row)
	default:
		return fmt.Sprintf("%s [role='%s']:nth-child(%d) [role='%s']:nth-child(%d)",
			b, c.RowRole, r.Row, c.CellRole, r.Column)
	}
}

func (c Composer) xpath(b string, r Region) string {
	switch r.Kind {
	case TableHeader:
		return fmt.Sprintf("%s//*[contains(@class,'%s')]", b, c.HeaderClass)
	case TableBody:
		return fmt.Sprintf("%s//*[contains(@class,'%s')]", b, c.BodyClass)
	case HeaderColumn:
		return fmt.Sprintf("(%s//*[@role='%s'])[%d]", b, c.ColumnRole, r.Column)
	case BodyRow:
		return fmt.Sprintf("(%s//*[@role='%s'])[%d]", b, c.RowRole, r.Row)
	default:
		return fmt.Sprintf("((%s//*[@role='%s'])[%d]//*[@role='%s'])[%d]",
			b, c.RowRole, r.Row, c.CellRole, r.Column)
	}
}

// Chain applies regions in order, e.g. Chain(table, Body(), Row(2)).
func Chain(base Spec, regions ...Region) (Spec, error) {
	return DefaultComposer.Chain(base, regions...)
}

func (c Composer) Chain(base Spec, regions ...Region) (Spec, error) {
	out := base
	for _, r := range regions {
		next, err := c.Compose(out, r)
		if err != nil {
			return Spec{}, err
		}
		out = next
	}
	return out, nil
}
