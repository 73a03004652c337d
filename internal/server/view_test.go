package server

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/lawnchairsociety/hexdelve/internal/mapgen"
	"github.com/lawnchairsociety/hexdelve/internal/room"
)

func TestNewMapViewRatesRooms(t *testing.T) {
	gen, err := mapgen.NewGenerator(mapgen.DefaultParams(), nil)
	if err != nil {
		t.Fatal(err)
	}
	m, err := gen.Generate(context.Background(), 0xDEADBEEF)
	if err != nil {
		t.Fatal(err)
	}

	view := NewMapView(m)
	if len(view.Rooms) != len(m.PlacedRooms()) {
		t.Fatalf("view has %d rooms, map has %d", len(view.Rooms), len(m.PlacedRooms()))
	}
	for _, r := range view.Rooms {
		kind := r.Room.Type.Kind
		switch kind {
		case room.KindEntrance, room.KindPillar, room.KindEmpty, room.KindItem:
			if !r.Safe || r.Danger != 0 {
				t.Errorf("%s room at (%d,%d): safe=%v danger=%d, want safe", kind, r.X, r.Y, r.Safe, r.Danger)
			}
		case room.KindCombat, room.KindPit:
			if r.Safe || r.Danger < 1 || r.Danger > 5 {
				t.Errorf("%s room at (%d,%d): safe=%v danger=%d, want rated 1..5", kind, r.X, r.Y, r.Safe, r.Danger)
			}
		}
		if r.Danger != r.Room.Type.DangerLevel() {
			t.Errorf("room at (%d,%d) danger %d, type says %d", r.X, r.Y, r.Danger, r.Room.Type.DangerLevel())
		}
	}

	data, err := json.Marshal(view.Rooms[0])
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"danger":`, `"safe":`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("room JSON %s lacks %s", data, key)
		}
	}
}
