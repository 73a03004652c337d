// Package savegame stores generated maps in the game database. Only the
// world seed, the map layout and the rooms are kept; everything else is
// either reproducible from the seed or not needed to resume play.
package savegame

import (
	"fmt"

	"github.com/lawnchairsociety/hexdelve/internal/database"
	"github.com/lawnchairsociety/hexdelve/internal/hexgrid"
	"github.com/lawnchairsociety/hexdelve/internal/logger"
	"github.com/lawnchairsociety/hexdelve/internal/mapgen"
	"github.com/lawnchairsociety/hexdelve/internal/room"
	"github.com/lawnchairsociety/hexdelve/internal/wfc"
)

// Save creates a new save game for m and writes its rooms. It returns the
// id of the new game.
func Save(db *database.Database, m *mapgen.Map) (int64, error) {
	game, err := db.CreateSaveGame(m.Seed, layoutOf(m.Params))
	if err != nil {
		return 0, err
	}
	if err := SaveRooms(db, game.ID, m); err != nil {
		if delErr := db.DeleteSaveGame(game.ID); delErr != nil {
			logger.Warning("Failed to remove incomplete save game",
				"game_id", game.ID,
				"error", delErr)
		}
		return 0, err
	}

	logger.Info("Saved map",
		"game_id", game.ID,
		"seed", fmt.Sprintf("%x", m.Seed),
		"rooms", len(m.PlacedRooms()))
	return game.ID, nil
}

// SaveRooms overwrites the stored rooms of an existing game with those of m.
func SaveRooms(db *database.Database, gameID int64, m *mapgen.Map) error {
	placed := m.PlacedRooms()
	records := make([]database.RoomRecord, 0, len(placed))
	for _, pr := range placed {
		records = append(records, toRecord(pr))
	}
	return db.SaveRooms(gameID, records)
}

// Load rebuilds the map of a stored game with the layout it was saved with,
// so later changes to the generation settings do not affect old games.
func Load(db *database.Database, gameID int64) (*mapgen.Map, error) {
	game, err := db.GetSaveGame(gameID)
	if err != nil {
		return nil, err
	}
	records, err := db.LoadRooms(gameID)
	if err != nil {
		return nil, fmt.Errorf("loading rooms of game %d: %w", gameID, err)
	}

	placed := make([]mapgen.PlacedRoom, 0, len(records))
	for _, r := range records {
		pr, err := fromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", gameID, err)
		}
		placed = append(placed, pr)
	}

	m, err := mapgen.Restore(paramsOf(game.Layout), game.WorldSeed, placed)
	if err != nil {
		return nil, err
	}

	logger.Debug("Loaded map", "game_id", gameID, "rooms", len(placed))
	return m, nil
}

func layoutOf(p mapgen.Params) database.Layout {
	return database.Layout{
		Radius:            p.Radius,
		VerticalOffset:    p.VerticalOffset,
		HorizontalXOffset: p.HorizontalXOffset,
		HorizontalYOffset: p.HorizontalYOffset,
		MaxWalkSteps:      p.MaxWalkSteps,
	}
}

func paramsOf(l database.Layout) mapgen.Params {
	return mapgen.Params{
		Radius:            l.Radius,
		VerticalOffset:    l.VerticalOffset,
		HorizontalXOffset: l.HorizontalXOffset,
		HorizontalYOffset: l.HorizontalYOffset,
		MaxWalkSteps:      l.MaxWalkSteps,
	}
}

func toRecord(pr mapgen.PlacedRoom) database.RoomRecord {
	return database.RoomRecord{
		X:        pr.Pos.X,
		Y:        pr.Pos.Y,
		Cleared:  pr.Info.Cleared,
		RoomType: pr.Info.Type.String(),
		RNGSeed:  pr.Info.RNGSeed,
		Color:    pr.Color.TextureIndex(),
	}
}

func fromRecord(r database.RoomRecord) (mapgen.PlacedRoom, error) {
	rt, err := room.ParseRoomType(r.RoomType)
	if err != nil {
		return mapgen.PlacedRoom{}, err
	}
	c, ok := wfc.ColorFromTexture(r.Color)
	if !ok {
		return mapgen.PlacedRoom{}, fmt.Errorf("%w: room (%d,%d) has texture %d", mapgen.ErrCorruptMap, r.X, r.Y, r.Color)
	}
	return mapgen.PlacedRoom{
		Pos:   hexgrid.Position{X: r.X, Y: r.Y},
		Color: c,
		Info:  room.Info{Cleared: r.Cleared, Type: rt, RNGSeed: r.RNGSeed},
	}, nil
}
