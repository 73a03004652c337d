package mapgen

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/hexdelve/internal/hexgrid"
	"github.com/lawnchairsociety/hexdelve/internal/rng"
	"github.com/lawnchairsociety/hexdelve/internal/room"
	"github.com/lawnchairsociety/hexdelve/internal/wfc"
)

// MapData represents the serialized map structure for export
type MapData struct {
	Seed     string             `yaml:"seed"`
	Params   Params             `yaml:"params"`
	SavedAt  time.Time          `yaml:"saved_at"`
	Entrance hexgrid.Position   `yaml:"entrance"`
	Pillars  []hexgrid.Position `yaml:"pillars"`
	Cells    []CellData         `yaml:"cells"`
	Rooms    []RoomData         `yaml:"rooms"`
	Walks    []WalkData         `yaml:"walks,omitempty"`
}

// CellData represents a serialized grid cell
type CellData struct {
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	State  string `yaml:"state"`
	Color  string `yaml:"color,omitempty"`
	Domain uint8  `yaml:"domain,omitempty"`
}

// RoomData represents a serialized room
type RoomData struct {
	X    int       `yaml:"x"`
	Y    int       `yaml:"y"`
	Room room.Info `yaml:"room"`
}

// WalkData represents a serialized carving walk
type WalkData struct {
	Sector string             `yaml:"sector"`
	Path   []hexgrid.Position `yaml:"path"`
	Carved int                `yaml:"carved"`
}

// SaveMap writes the map to a YAML file
func SaveMap(m *Map, filename string) error {
	data := serializeMap(m)

	yamlData, err := yaml.Marshal(&data)
	if err != nil {
		return fmt.Errorf("failed to marshal map data: %w", err)
	}

	if err := os.WriteFile(filename, yamlData, 0644); err != nil {
		return fmt.Errorf("failed to write map file: %w", err)
	}

	return nil
}

// serializeMap converts a Map to MapData
func serializeMap(m *Map) MapData {
	data := MapData{
		Seed:     rng.FormatSeed(m.Seed),
		Params:   m.Params,
		SavedAt:  time.Now(),
		Entrance: m.Entrance,
		Pillars:  m.Pillars[:],
		Cells:    make([]CellData, 0, m.Cells.Len()),
	}

	m.Cells.Each(func(p hexgrid.Position, c *wfc.Cell) {
		cd := CellData{X: p.X, Y: p.Y, State: c.State.String()}
		switch c.State {
		case wfc.Collapsed:
			col, _ := c.Color()
			cd.Color = col.String()
		case wfc.Open:
			cd.Domain = uint8(c.Domain)
		}
		data.Cells = append(data.Cells, cd)
	})

	for _, pr := range m.PlacedRooms() {
		data.Rooms = append(data.Rooms, RoomData{X: pr.Pos.X, Y: pr.Pos.Y, Room: pr.Info})
	}

	for _, w := range m.Walks {
		data.Walks = append(data.Walks, WalkData{
			Sector: w.Sector.String(),
			Path:   w.Path,
			Carved: w.Carved,
		})
	}

	return data
}

// LoadMap loads a map from a YAML file written by SaveMap
func LoadMap(filename string) (*Map, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file: %w", err)
	}

	var data MapData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse map YAML: %w", err)
	}

	return deserializeMap(data)
}

// deserializeMap converts MapData back to a Map
func deserializeMap(data MapData) (*Map, error) {
	seed, err := rng.ParseSeed(data.Seed)
	if err != nil {
		return nil, err
	}
	if err := data.Params.Validate(); err != nil {
		return nil, err
	}

	m, err := newMap(data.Params, seed)
	if err != nil {
		return nil, err
	}
	if data.Entrance != m.Entrance {
		return nil, fmt.Errorf("%w: entrance at %v, want %v", ErrCorruptMap, data.Entrance, m.Entrance)
	}
	if len(data.Pillars) != len(m.Pillars) {
		return nil, fmt.Errorf("%w: %d pillars", ErrCorruptMap, len(data.Pillars))
	}
	copy(m.Pillars[:], data.Pillars)

	for _, cd := range data.Cells {
		cell, err := deserializeCell(cd)
		if err != nil {
			return nil, err
		}
		if !m.Cells.Set(hexgrid.Position{X: cd.X, Y: cd.Y}, cell) {
			return nil, fmt.Errorf("%w: (%d,%d)", ErrMissingCell, cd.X, cd.Y)
		}
	}

	for _, rd := range data.Rooms {
		info := rd.Room
		if !m.Rooms.Set(hexgrid.Position{X: rd.X, Y: rd.Y}, &info) {
			return nil, fmt.Errorf("%w: room at (%d,%d)", ErrMissingCell, rd.X, rd.Y)
		}
	}

	for i, wd := range data.Walks {
		if i >= len(Sectors) {
			return nil, fmt.Errorf("%w: %d walks", ErrCorruptMap, len(data.Walks))
		}
		s := Sectors[i]
		if wd.Sector != s.String() {
			return nil, fmt.Errorf("%w: walk %d is %q, want %q", ErrCorruptMap, i, wd.Sector, s)
		}
		m.Walks = append(m.Walks, Walk{
			Sector: s,
			Target: m.Pillars[s],
			Path:   wd.Path,
			Carved: wd.Carved,
		})
	}

	return m, nil
}

// deserializeCell converts CellData back to a cell
func deserializeCell(cd CellData) (wfc.Cell, error) {
	switch cd.State {
	case wfc.Collapsed.String():
		col, err := wfc.ParseColor(cd.Color)
		if err != nil {
			return wfc.Cell{}, fmt.Errorf("%w: cell (%d,%d): %v", ErrCorruptMap, cd.X, cd.Y, err)
		}
		return wfc.CollapsedCell(col), nil
	case wfc.Exhausted.String():
		return wfc.ExhaustedCell(), nil
	case wfc.Open.String():
		d := wfc.Domain(cd.Domain)
		if d == 0 || d&^wfc.FullDomain != 0 {
			return wfc.Cell{}, fmt.Errorf("%w: cell (%d,%d) has domain %d", ErrCorruptMap, cd.X, cd.Y, cd.Domain)
		}
		return wfc.Cell{State: wfc.Open, Domain: d}, nil
	default:
		return wfc.Cell{}, fmt.Errorf("%w: cell (%d,%d) has state %q", ErrCorruptMap, cd.X, cd.Y, cd.State)
	}
}

// MapFileExists checks if a map export file exists
func MapFileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
