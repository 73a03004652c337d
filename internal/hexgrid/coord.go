package hexgrid

import "fmt"

// Position is a tile position inside a grid's bounding box.
// X and Y are axial coordinates (pointy-top rows) measured from the box corner,
// so the grid centre sits at (R, R).
type Position struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Axial represents axial coordinates (q, r) for pointy-top orientation.
type Axial struct {
	Q int
	R int
}

// Cube represents cube coordinates (x, y, z) with x+y+z=0.
type Cube struct {
	X int
	Y int
	Z int
}

// Directions lists the six neighbour offsets in enumeration order.
// Path carving breaks distance ties by this order.
var Directions = [6]Axial{
	{+1, 0}, {0, +1}, {-1, +1}, {-1, 0}, {0, -1}, {+1, -1},
}

// String returns "(x,y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Axial returns the position as an axial coordinate.
func (p Position) Axial() Axial { return Axial{Q: p.X, R: p.Y} }

// Cube returns the position as a cube coordinate.
func (p Position) Cube() Cube { return p.Axial().ToCube() }

// Offset converts the position to odd-r offset coordinates (column, row),
// the layout used when a map is drawn as staggered text rows.
func (p Position) Offset() (col, row int) {
	return p.X + (p.Y-(p.Y&1))/2, p.Y
}

// Step returns the position one step away in the given direction.
func (p Position) Step(d Axial) Position {
	return Position{X: p.X + d.Q, Y: p.Y + d.R}
}

// Sub returns the axial delta from o to p.
func (p Position) Sub(o Position) Axial {
	return Axial{Q: p.X - o.X, R: p.Y - o.Y}
}

// FromAxial converts an axial coordinate back to a position.
func FromAxial(a Axial) Position { return Position{X: a.Q, Y: a.R} }

// FromOffset converts odd-r offset coordinates to a position.
func FromOffset(col, row int) Position {
	return Position{X: col - (row-(row&1))/2, Y: row}
}

// Add returns a+b in axial space.
func (a Axial) Add(b Axial) Axial { return Axial{a.Q + b.Q, a.R + b.R} }

// Mul scales an axial vector by k.
func (a Axial) Mul(k int) Axial { return Axial{a.Q * k, a.R * k} }

// ToCube converts axial to cube.
func (a Axial) ToCube() Cube {
	return Cube{X: a.Q, Y: -a.Q - a.R, Z: a.R}
}

// ToAxial converts cube to axial.
func (c Cube) ToAxial() Axial { return Axial{Q: c.X, R: c.Z} }

// Distance returns the hex distance between two positions.
func Distance(a, b Position) int {
	ca, cb := a.Cube(), b.Cube()
	return max(abs(ca.X-cb.X), abs(ca.Y-cb.Y), abs(ca.Z-cb.Z))
}

// OffsetDistance is the coordinate-wise distance |dx|+|dy|.
// It is the metric the path carver minimises.
func OffsetDistance(a, b Position) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Disk returns all positions within distance r of center, ring by ring.
func Disk(center Position, r int) []Position {
	if r < 0 {
		return nil
	}
	out := []Position{center}
	for k := 1; k <= r; k++ {
		out = append(out, Ring(center, k)...)
	}
	return out
}

// Ring returns the positions at exactly distance k from center.
func Ring(center Position, k int) []Position {
	if k <= 0 {
		return []Position{center}
	}
	out := make([]Position, 0, 6*k)
	// start k steps along direction 4 and walk each side of the ring
	cur := center.Step(Directions[4].Mul(k))
	for side := 0; side < 6; side++ {
		for i := 0; i < k; i++ {
			out = append(out, cur)
			cur = cur.Step(Directions[side])
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
