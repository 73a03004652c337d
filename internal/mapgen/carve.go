package mapgen

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/hexdelve/internal/hexgrid"
	"github.com/lawnchairsociety/hexdelve/internal/room"
	"github.com/lawnchairsociety/hexdelve/internal/wfc"
)

var (
	ErrWalkExceeded = errors.New("mapgen: carving walk exceeded step limit")
)

// carvePaths walks from the entrance to each pillar in sector order and
// turns every cell it passes into a room. A cell is carved at most once
// across all walks; the entrance and pillars are never carved.
func carvePaths(m *Map, r room.Rand, table *room.Table) error {
	seen := mapset.New[hexgrid.Position]()
	seen.Put(m.Entrance)
	for _, p := range m.Pillars {
		seen.Put(p)
	}

	limit := m.Params.WalkLimit()
	m.Walks = make([]Walk, 0, len(Sectors))
	for _, s := range Sectors {
		walk, err := carveWalk(m, r, table, &seen, m.Pillars[s], limit)
		if err != nil {
			return fmt.Errorf("carving to %s pillar: %w", s, err)
		}
		walk.Sector = s
		m.Walks = append(m.Walks, walk)
	}
	return nil
}

// carveWalk greedily steps toward target, always moving to the first
// neighbour (in direction order) that minimises the offset distance.
func carveWalk(m *Map, r room.Rand, table *room.Table, seen *mapset.Set[hexgrid.Position], target hexgrid.Position, limit int) (Walk, error) {
	walk := Walk{Target: target}
	cur := m.Entrance

	for cur != target {
		if len(walk.Path) >= limit {
			return walk, fmt.Errorf("%w: %d steps toward %v", ErrWalkExceeded, limit, target)
		}

		next, ok := nextStep(m.Cells, cur, target)
		if !ok {
			return walk, fmt.Errorf("%w: no neighbour of %v", ErrMissingCell, cur)
		}
		cur = next
		walk.Path = append(walk.Path, cur)

		if cur == target || seen.Has(cur) {
			continue
		}
		seen.Put(cur)

		info := room.NewInfo(table.Assign(r), RoomSeed(m.Seed, cur))
		if err := m.setRoom(cur, wfc.CarvedColor, info); err != nil {
			return walk, err
		}
		walk.Carved++
	}
	return walk, nil
}

func nextStep(grid *hexgrid.Grid[wfc.Cell], cur, target hexgrid.Position) (hexgrid.Position, bool) {
	var best hexgrid.Position
	bestDist := -1
	for _, n := range grid.Neighbors(cur) {
		d := hexgrid.OffsetDistance(n, target)
		if bestDist < 0 || d < bestDist {
			best, bestDist = n, d
		}
	}
	return best, bestDist >= 0
}
