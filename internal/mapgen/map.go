package mapgen

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/hexdelve/internal/hexgrid"
	"github.com/lawnchairsociety/hexdelve/internal/room"
	"github.com/lawnchairsociety/hexdelve/internal/wfc"
)

var (
	ErrMissingCell = errors.New("mapgen: cell missing from grid")
	ErrCorruptMap  = errors.New("mapgen: stored map is inconsistent")
)

// Map is a generated world: the colour grid, the rooms placed on it and the
// walks that connected them.
type Map struct {
	Seed   uint64
	Params Params

	Cells *hexgrid.Grid[wfc.Cell]
	Rooms *hexgrid.Grid[*room.Info]

	Entrance hexgrid.Position
	Pillars  [4]hexgrid.Position // indexed by Sector
	Walks    []Walk
}

// Walk records one carving walk from the entrance to a pillar.
type Walk struct {
	Sector Sector
	Target hexgrid.Position
	// Path holds every cell stepped onto, ending at Target
	Path []hexgrid.Position
	// Carved counts the cells the walk turned into new rooms
	Carved int
}

// Steps returns the number of moves the walk took.
func (w Walk) Steps() int { return len(w.Path) }

// PlacedRoom is a room together with its position and floor colour.
type PlacedRoom struct {
	Pos   hexgrid.Position
	Color wfc.Color
	Info  room.Info
}

func newMap(params Params, seed uint64) (*Map, error) {
	cells, err := wfc.NewGrid(params.Radius)
	if err != nil {
		return nil, err
	}
	rooms, err := hexgrid.New[*room.Info](params.Radius, nil)
	if err != nil {
		return nil, err
	}
	return &Map{
		Seed:     seed,
		Params:   params,
		Cells:    cells,
		Rooms:    rooms,
		Entrance: cells.Center(),
	}, nil
}

// ColorAt returns the colour of the cell at pos, if it has one.
func (m *Map) ColorAt(pos hexgrid.Position) (wfc.Color, bool) {
	cell, ok := m.Cells.Get(pos)
	if !ok {
		return 0, false
	}
	return cell.Color()
}

// RoomAt returns the room at pos, if there is one.
func (m *Map) RoomAt(pos hexgrid.Position) (*room.Info, bool) {
	info, ok := m.Rooms.Get(pos)
	if !ok || *info == nil {
		return nil, false
	}
	return *info, true
}

// setRoom fixes the cell at pos to colour c and attaches info.
func (m *Map) setRoom(pos hexgrid.Position, c wfc.Color, info *room.Info) error {
	cell, ok := m.Cells.Get(pos)
	if !ok {
		return fmt.Errorf("%w: %v", ErrMissingCell, pos)
	}
	*cell = wfc.CollapsedCell(c)
	m.Rooms.Set(pos, info)
	return nil
}

// PlacedRooms returns every room in scan order.
func (m *Map) PlacedRooms() []PlacedRoom {
	var out []PlacedRoom
	for _, p := range m.Rooms.Positions() {
		info, ok := m.RoomAt(p)
		if !ok {
			continue
		}
		c, _ := m.ColorAt(p)
		out = append(out, PlacedRoom{Pos: p, Color: c, Info: *info})
	}
	return out
}

// CountKind returns how many rooms of the given kind the map holds.
func (m *Map) CountKind(k room.Kind) int {
	n := 0
	m.Rooms.Each(func(_ hexgrid.Position, info **room.Info) {
		if *info != nil && (*info).Type.Kind == k {
			n++
		}
	})
	return n
}

// Equal reports whether two maps are identical cell for cell.
func (m *Map) Equal(o *Map) bool {
	if m.Seed != o.Seed || m.Params != o.Params || m.Entrance != o.Entrance || m.Pillars != o.Pillars {
		return false
	}
	if m.Cells.Len() != o.Cells.Len() {
		return false
	}
	for _, p := range m.Cells.Positions() {
		a, _ := m.Cells.Get(p)
		b, ok := o.Cells.Get(p)
		if !ok || *a != *b {
			return false
		}
		ra, _ := m.RoomAt(p)
		rb, _ := o.RoomAt(p)
		if !ra.Equal(rb) {
			return false
		}
	}
	return true
}

// Restore rebuilds a map from stored rooms without running generation.
// Cells without a room come back Exhausted, since only rooms are stored.
func Restore(params Params, seed uint64, rooms []PlacedRoom) (*Map, error) {
	m, err := newMap(params, seed)
	if err != nil {
		return nil, err
	}
	m.Cells.Each(func(_ hexgrid.Position, c *wfc.Cell) { *c = wfc.ExhaustedCell() })

	entrances := 0
	var pillars [4]bool
	for _, pr := range rooms {
		if !pr.Color.Valid() {
			return nil, fmt.Errorf("%w: room %v has colour %d", ErrCorruptMap, pr.Pos, pr.Color)
		}
		info := pr.Info
		if err := m.setRoom(pr.Pos, pr.Color, &info); err != nil {
			return nil, err
		}

		switch info.Type.Kind {
		case room.KindEntrance:
			if pr.Pos != m.Entrance {
				return nil, fmt.Errorf("%w: entrance at %v, want %v", ErrCorruptMap, pr.Pos, m.Entrance)
			}
			entrances++
		case room.KindPillar:
			s, ok := params.SectorOf(pr.Pos.Sub(m.Entrance))
			if !ok || pillars[s] {
				return nil, fmt.Errorf("%w: unexpected pillar at %v", ErrCorruptMap, pr.Pos)
			}
			pillars[s] = true
			m.Pillars[s] = pr.Pos
		}
	}

	if entrances != 1 {
		return nil, fmt.Errorf("%w: %d entrances", ErrCorruptMap, entrances)
	}
	for _, s := range Sectors {
		if !pillars[s] {
			return nil, fmt.Errorf("%w: no %s pillar", ErrCorruptMap, s)
		}
	}
	return m, nil
}
