package server

import (
	"github.com/lawnchairsociety/hexdelve/internal/mapgen"
	"github.com/lawnchairsociety/hexdelve/internal/rng"
	"github.com/lawnchairsociety/hexdelve/internal/room"
)

// Request asks the feed for one map. A blank seed picks a random one.
type Request struct {
	Seed string `json:"seed"`
}

// MapView is the JSON form of a generated map sent to preview clients.
type MapView struct {
	Seed   string     `json:"seed"`
	Radius int        `json:"radius"`
	Cells  []CellView `json:"cells"`
	Rooms  []RoomView `json:"rooms"`
}

// CellView is one grid cell with the texture to draw.
type CellView struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	State   string `json:"state"`
	Texture int    `json:"texture"`
}

// RoomView is one placed room with its danger rating.
type RoomView struct {
	X      int       `json:"x"`
	Y      int       `json:"y"`
	Room   room.Info `json:"room"`
	Danger int       `json:"danger"`
	Safe   bool      `json:"safe"`
}

// ErrorView is sent instead of a MapView when a request fails.
type ErrorView struct {
	Error string `json:"error"`
}

// NewMapView flattens m in scan order.
func NewMapView(m *mapgen.Map) MapView {
	v := MapView{
		Seed:   rng.FormatSeed(m.Seed),
		Radius: m.Params.Radius,
		Cells:  make([]CellView, 0, m.Cells.Len()),
	}
	for _, p := range m.Cells.Positions() {
		c, _ := m.Cells.Get(p)
		v.Cells = append(v.Cells, CellView{X: p.X, Y: p.Y, State: c.State.String(), Texture: c.Texture()})
	}
	for _, pr := range m.PlacedRooms() {
		v.Rooms = append(v.Rooms, RoomView{
			X:      pr.Pos.X,
			Y:      pr.Pos.Y,
			Room:   pr.Info,
			Danger: pr.Info.Type.DangerLevel(),
			Safe:   pr.Info.Type.IsSafe(),
		})
	}
	return v
}
