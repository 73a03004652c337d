package wfc

import "math/bits"

// Domain is the set of colours a cell may still take, one flag per colour.
// Flags are only ever removed.
type Domain uint8

// FullDomain has every colour admissible.
const FullDomain Domain = 1<<NumColors - 1

// Has reports whether colour c is still admissible.
func (d Domain) Has(c Color) bool {
	return c.Valid() && d&(1<<uint(c)) != 0
}

// Without returns the domain with colour c cleared.
func (d Domain) Without(c Color) Domain {
	if !c.Valid() {
		return d
	}
	return d &^ (1 << uint(c))
}

// Entropy returns the number of admissible colours.
func (d Domain) Entropy() int {
	return bits.OnesCount8(uint8(d))
}

// Options returns the admissible colours in enumeration order.
func (d Domain) Options() []Color {
	out := make([]Color, 0, d.Entropy())
	for _, c := range AllColors() {
		if d.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// State is the lifecycle stage of a cell.
type State int

const (
	Open      State = iota // domain non-empty, not yet collapsed
	Collapsed              // colour fixed
	Exhausted              // domain emptied by propagation, never collapses
)

// String returns the string representation of a State
func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Collapsed:
		return "collapsed"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Cell is the per-cell record the solver works on. Only one of Domain or
// Colour is meaningful, depending on State: an Open cell has a domain, a
// Collapsed cell has a colour and an Exhausted cell has neither.
type Cell struct {
	State  State
	Domain Domain
	color  Color
}

// NewOpenCell returns a cell with every colour admissible.
func NewOpenCell() Cell {
	return Cell{State: Open, Domain: FullDomain}
}

// CollapsedCell returns a cell fixed to colour c.
func CollapsedCell(c Color) Cell {
	return Cell{State: Collapsed, color: c}
}

// ExhaustedCell returns a cell whose domain ran empty.
func ExhaustedCell() Cell {
	return Cell{State: Exhausted}
}

// Entropy returns the number of admissible colours of an Open cell and 0
// otherwise.
func (c Cell) Entropy() int {
	if c.State != Open {
		return 0
	}
	return c.Domain.Entropy()
}

// Color returns the fixed colour of a collapsed cell.
func (c Cell) Color() (Color, bool) {
	if c.State != Collapsed {
		return 0, false
	}
	return c.color, true
}

// Texture returns the texture to draw for the cell, falling back to the
// outline texture when no colour was ever fixed.
func (c Cell) Texture() int {
	if col, ok := c.Color(); ok {
		return col.TextureIndex()
	}
	return OutlineTexture
}

// remove clears colour col from an Open cell, moving it to Exhausted when
// nothing is left.
func (c *Cell) remove(col Color) {
	if c.State != Open {
		return
	}
	c.Domain = c.Domain.Without(col)
	if c.Domain == 0 {
		*c = ExhaustedCell()
	}
}
