package hexgrid

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRadius = errors.New("hexgrid: radius must not be negative")
)

// Grid is a fixed-size arena of cell records laid out over a hexagon of the
// given radius. Cells are addressed by a packed key y*width+x inside the
// (2R+1)x(2R+1) bounding box; only positions within hex distance R of the
// centre are members.
type Grid[T any] struct {
	radius int
	width  int
	center Position

	cells   []T
	member  []bool
	ordered []Position // members in scan order
}

// New allocates a hexagonal grid and fills every member cell with init(pos).
func New[T any](radius int, init func(Position) T) (*Grid[T], error) {
	if radius < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRadius, radius)
	}

	width := 2*radius + 1
	g := &Grid[T]{
		radius: radius,
		width:  width,
		center: Position{X: radius, Y: radius},
		cells:  make([]T, width*width),
		member: make([]bool, width*width),
	}

	for _, p := range Disk(g.center, radius) {
		g.member[g.key(p)] = true
	}

	g.ordered = make([]Position, 0, 1+3*radius*(radius+1))
	for y := 0; y < width; y++ {
		for x := 0; x < width; x++ {
			p := Position{X: x, Y: y}
			if !g.member[g.key(p)] {
				continue
			}
			g.ordered = append(g.ordered, p)
			if init != nil {
				g.cells[g.key(p)] = init(p)
			}
		}
	}

	return g, nil
}

func (g *Grid[T]) key(p Position) int {
	return p.Y*g.width + p.X
}

func (g *Grid[T]) inBox(p Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.width
}

// Radius returns the hexagon radius.
func (g *Grid[T]) Radius() int { return g.radius }

// Width returns the bounding box side length (2R+1).
func (g *Grid[T]) Width() int { return g.width }

// Center returns the centre position (R, R).
func (g *Grid[T]) Center() Position { return g.center }

// Len returns the number of member cells.
func (g *Grid[T]) Len() int { return len(g.ordered) }

// Contains reports whether p is a member of the hexagon footprint.
func (g *Grid[T]) Contains(p Position) bool {
	return g.inBox(p) && g.member[g.key(p)]
}

// Get returns the cell at p, or false when p is outside the footprint.
func (g *Grid[T]) Get(p Position) (*T, bool) {
	if !g.Contains(p) {
		return nil, false
	}
	return &g.cells[g.key(p)], true
}

// Set overwrites the cell at p. It returns false when p is not a member.
func (g *Grid[T]) Set(p Position, v T) bool {
	if !g.Contains(p) {
		return false
	}
	g.cells[g.key(p)] = v
	return true
}

// Positions returns the member positions in scan order (row by row, then
// column). The returned slice must not be modified.
func (g *Grid[T]) Positions() []Position {
	return g.ordered
}

// Neighbors returns the member neighbours of p in Directions order.
func (g *Grid[T]) Neighbors(p Position) []Position {
	out := make([]Position, 0, len(Directions))
	for _, d := range Directions {
		n := p.Step(d)
		if g.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

// Each calls fn for every member cell in scan order.
func (g *Grid[T]) Each(fn func(Position, *T)) {
	for _, p := range g.ordered {
		fn(p, &g.cells[g.key(p)])
	}
}
