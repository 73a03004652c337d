package mapgen

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/hexdelve/internal/hexgrid"
)

var (
	ErrInvalidParams = errors.New("mapgen: invalid generation parameters")
)

// Sector is one of the four compass regions a pillar is placed in.
type Sector int

const (
	North Sector = iota
	East
	South
	West
)

// Sectors lists the sectors in placement and carving order.
var Sectors = [4]Sector{North, East, South, West}

// String returns the string representation of a Sector
func (s Sector) String() string {
	switch s {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// Params controls the map size and where pillars may land.
type Params struct {
	// Radius of the hexagonal map
	Radius int `yaml:"radius"`
	// VerticalOffset is how many rows in from the top and bottom edges the
	// north and south pillars may sit
	VerticalOffset int `yaml:"vertical_offset"`
	// HorizontalXOffset is the column spread of every pillar band
	HorizontalXOffset int `yaml:"horizontal_x_offset"`
	// HorizontalYOffset is how many rows above and below the centre row the
	// east and west pillars may sit
	HorizontalYOffset int `yaml:"horizontal_y_offset"`
	// MaxWalkSteps caps each carving walk; 0 means 2*Radius+1
	MaxWalkSteps int `yaml:"max_walk_steps"`
}

// DefaultParams returns the standard map parameters.
func DefaultParams() Params {
	return Params{
		Radius:            5,
		VerticalOffset:    1,
		HorizontalXOffset: 1,
		HorizontalYOffset: 1,
	}
}

// WalkLimit returns the step ceiling of a carving walk.
func (p Params) WalkLimit() int {
	if p.MaxWalkSteps > 0 {
		return p.MaxWalkSteps
	}
	return 2*p.Radius + 1
}

// rows returns the inclusive range of row offsets (relative to the centre)
// of a sector's band.
func (p Params) rows(s Sector) (lo, hi int) {
	r := p.Radius
	switch s {
	case North:
		return -r, -r + p.VerticalOffset
	case South:
		return r - p.VerticalOffset, r
	default:
		return -p.HorizontalYOffset, p.HorizontalYOffset
	}
}

// cols returns the inclusive range of column offsets of a sector's band on
// row dr.
func (p Params) cols(s Sector, dr int) (lo, hi int) {
	r := p.Radius
	switch s {
	case North, South:
		// centre column of row dr in axial coordinates
		c := -dr / 2
		return c - p.HorizontalXOffset, c + p.HorizontalXOffset
	case East:
		qmax := r - max(0, dr)
		return qmax - p.HorizontalXOffset, qmax
	default:
		qmin := -r + max(0, -dr)
		return qmin, qmin + p.HorizontalXOffset
	}
}

// Band returns every centre-relative offset a pillar of sector s may take.
func (p Params) Band(s Sector) []hexgrid.Axial {
	var out []hexgrid.Axial
	rlo, rhi := p.rows(s)
	for dr := rlo; dr <= rhi; dr++ {
		qlo, qhi := p.cols(s, dr)
		for dq := qlo; dq <= qhi; dq++ {
			out = append(out, hexgrid.Axial{Q: dq, R: dr})
		}
	}
	return out
}

// SectorOf returns the sector whose band contains the centre-relative
// offset d.
func (p Params) SectorOf(d hexgrid.Axial) (Sector, bool) {
	for _, s := range Sectors {
		rlo, rhi := p.rows(s)
		if d.R < rlo || d.R > rhi {
			continue
		}
		qlo, qhi := p.cols(s, d.R)
		if d.Q >= qlo && d.Q <= qhi {
			return s, true
		}
	}
	return 0, false
}

// Validate checks the parameters and verifies that every pillar band lies
// inside the hexagon, avoids the entrance and overlaps no other band.
func (p Params) Validate() error {
	if p.Radius < 1 {
		return fmt.Errorf("%w: radius %d must be at least 1", ErrInvalidParams, p.Radius)
	}
	if p.VerticalOffset < 0 || p.HorizontalXOffset < 0 || p.HorizontalYOffset < 0 {
		return fmt.Errorf("%w: offsets must not be negative", ErrInvalidParams)
	}
	if p.MaxWalkSteps < 0 {
		return fmt.Errorf("%w: max_walk_steps must not be negative", ErrInvalidParams)
	}

	center := hexgrid.Position{X: p.Radius, Y: p.Radius}
	owner := make(map[hexgrid.Axial]Sector)
	for _, s := range Sectors {
		for _, d := range p.Band(s) {
			if d == (hexgrid.Axial{}) {
				return fmt.Errorf("%w: %s band contains the entrance", ErrInvalidParams, s)
			}
			pos := center.Step(d)
			if hexgrid.Distance(center, pos) > p.Radius {
				return fmt.Errorf("%w: %s band cell %v is outside radius %d", ErrInvalidParams, s, pos, p.Radius)
			}
			if other, dup := owner[d]; dup {
				return fmt.Errorf("%w: %s and %s bands overlap at %v", ErrInvalidParams, other, s, pos)
			}
			owner[d] = s
		}
	}
	return nil
}
