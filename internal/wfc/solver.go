package wfc

import (
	"context"
	"errors"
	"fmt"

	"github.com/lawnchairsociety/hexdelve/internal/hexgrid"
)

var (
	ErrMaxIterations = errors.New("wfc: exceeded maximum iterations")
	ErrOutsideGrid   = errors.New("wfc: position outside grid")
	ErrInvalidColor  = errors.New("wfc: invalid color")
	ErrConflict      = errors.New("wfc: neighbouring cells break the adjacency rules")
)

// Rand is the random stream the solver draws from.
type Rand interface {
	IntN(n int) int
}

// Stats counts cells per state.
type Stats struct {
	Open      int
	Collapsed int
	Exhausted int
}

// Solver runs a greedy, non-backtracking collapse over a hexagonal grid.
// Each step collapses one minimum-entropy Open cell to a random admissible
// colour and clears that colour from its Open neighbours. Cells whose domain
// runs empty become Exhausted and stay uncoloured.
type Solver struct {
	Grid  *hexgrid.Grid[Cell]
	Rules *Rules
	rng   Rand

	steps int
	ties  []hexgrid.Position
}

// NewGrid allocates a hexagonal grid of Open cells.
func NewGrid(radius int) (*hexgrid.Grid[Cell], error) {
	return hexgrid.New(radius, func(hexgrid.Position) Cell { return NewOpenCell() })
}

// NewSolver creates a solver over grid drawing from rng.
func NewSolver(grid *hexgrid.Grid[Cell], rng Rand) *Solver {
	return &Solver{
		Grid:  grid,
		Rules: DefaultRules(),
		rng:   rng,
		ties:  make([]hexgrid.Position, 0, grid.Len()),
	}
}

// Steps returns the number of collapse steps taken so far.
func (s *Solver) Steps() int { return s.steps }

// Fix writes colour c into the cell at pos without drawing from the stream
// and propagates it to the neighbours.
func (s *Solver) Fix(pos hexgrid.Position, c Color) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidColor, c)
	}
	cell, ok := s.Grid.Get(pos)
	if !ok {
		return fmt.Errorf("%w: %v", ErrOutsideGrid, pos)
	}
	*cell = CollapsedCell(c)
	s.propagate(pos, c)
	return nil
}

// Step performs one collapse. It returns false once no Open cell remains.
func (s *Solver) Step() bool {
	s.ties = s.ties[:0]
	minEntropy := NumColors + 1

	for _, p := range s.Grid.Positions() {
		cell, _ := s.Grid.Get(p)
		if cell.State != Open {
			continue
		}
		e := cell.Entropy()
		switch {
		case e < minEntropy:
			minEntropy = e
			s.ties = append(s.ties[:0], p)
		case e == minEntropy:
			s.ties = append(s.ties, p)
		}
	}

	if len(s.ties) == 0 {
		return false
	}

	pos := s.ties[s.rng.IntN(len(s.ties))]
	cell, _ := s.Grid.Get(pos)
	options := cell.Domain.Options()
	color := options[s.rng.IntN(len(options))]

	*cell = CollapsedCell(color)
	s.propagate(pos, color)
	s.steps++
	return true
}

// Run collapses cells until none is Open. The context is checked between
// steps; a cancelled run leaves the grid partially collapsed and must be
// discarded by the caller.
func (s *Solver) Run(ctx context.Context) error {
	// every step removes one Open cell, so this bound is never reached
	maxIterations := s.Grid.Len() + 1

	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > maxIterations {
			return ErrMaxIterations
		}
		if !s.Step() {
			return nil
		}
	}
}

// Verify checks every pair of neighbouring Collapsed cells against the
// rules. It reports the first conflict in scan order.
func (s *Solver) Verify() error {
	for _, p := range s.Grid.Positions() {
		a, _ := s.Grid.Get(p)
		ca, ok := a.Color()
		if !ok {
			continue
		}
		for _, n := range s.Grid.Neighbors(p) {
			b, _ := s.Grid.Get(n)
			cb, ok := b.Color()
			if ok && !s.Rules.CanBeAdjacent(ca, cb) {
				return fmt.Errorf("%w: %s at %v next to %s at %v", ErrConflict, ca, p, cb, n)
			}
		}
	}
	return nil
}

// propagate clears the excluded colours from the Open neighbours of pos.
func (s *Solver) propagate(pos hexgrid.Position, c Color) {
	excluded := s.Rules.Exclusions(c)
	for _, n := range s.Grid.Neighbors(pos) {
		cell, _ := s.Grid.Get(n)
		for _, ex := range excluded {
			cell.remove(ex)
		}
	}
}

// Stats counts the cells in each state.
func (s *Solver) Stats() Stats {
	return CountStates(s.Grid)
}

// CountStates counts the cells of grid in each state.
func CountStates(grid *hexgrid.Grid[Cell]) Stats {
	var st Stats
	grid.Each(func(_ hexgrid.Position, c *Cell) {
		switch c.State {
		case Open:
			st.Open++
		case Collapsed:
			st.Collapsed++
		case Exhausted:
			st.Exhausted++
		}
	})
	return st
}
