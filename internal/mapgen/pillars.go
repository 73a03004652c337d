package mapgen

import (
	"fmt"

	"github.com/lawnchairsociety/hexdelve/internal/hexgrid"
	"github.com/lawnchairsociety/hexdelve/internal/room"
	"github.com/lawnchairsociety/hexdelve/internal/wfc"
)

// Rand is the random stream generation draws from.
type Rand interface {
	IntN(n int) int
	Range(lo, hi int) int
}

// placePillars puts one pillar in each sector band, in North, East, South,
// West order. Each pillar takes two draws: the row first, then the column.
// The pillar cell is forced to the marker colour whatever the collapse left
// there.
func placePillars(m *Map, r Rand) error {
	for _, s := range Sectors {
		rlo, rhi := m.Params.rows(s)
		dr := r.Range(rlo, rhi)
		qlo, qhi := m.Params.cols(s, dr)
		dq := r.Range(qlo, qhi)

		pos := m.Entrance.Step(hexgrid.Axial{Q: dq, R: dr})
		info := room.NewInfo(room.PillarRoom(), RoomSeed(m.Seed, pos))
		if err := m.setRoom(pos, wfc.MarkerColor, info); err != nil {
			return fmt.Errorf("placing %s pillar: %w", s, err)
		}
		m.Pillars[s] = pos
	}
	return nil
}
