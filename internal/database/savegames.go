package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Layout is the map geometry a game was generated with. It is stored with
// the game so the map can be rebuilt whatever the current settings are.
type Layout struct {
	Radius            int
	VerticalOffset    int
	HorizontalXOffset int
	HorizontalYOffset int
	MaxWalkSteps      int
}

// SaveGame is one started game and the seed its map was generated from.
type SaveGame struct {
	ID        int64
	CreatedAt time.Time
	LastSaved *time.Time
	WorldSeed uint64
	Layout
}

const saveGameColumns = `game_id, created_at, last_saved, world_seed, radius,
		vertical_offset, horizontal_x_offset, horizontal_y_offset, max_walk_steps`

// CreateSaveGame records a new game and returns it with its assigned id.
func (d *Database) CreateSaveGame(worldSeed uint64, layout Layout) (*SaveGame, error) {
	game := &SaveGame{
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		WorldSeed: worldSeed,
		Layout:    layout,
	}

	query := d.qb.BuildWithReturning(`
		INSERT INTO save_games (created_at, world_seed, radius,
			vertical_offset, horizontal_x_offset, horizontal_y_offset, max_walk_steps)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, "game_id")
	args := append([]any{game.CreatedAt, int64(worldSeed)}, layout.args()...)

	if d.dialect.SupportsLastInsertID() {
		result, err := d.db.Exec(query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to create save game: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to get save game id: %w", err)
		}
		game.ID = id
	} else {
		if err := d.db.QueryRow(query, args...).Scan(&game.ID); err != nil {
			return nil, fmt.Errorf("failed to create save game: %w", err)
		}
	}

	return game, nil
}

// GetSaveGame returns the game with the given id, or ErrNotFound.
func (d *Database) GetSaveGame(gameID int64) (*SaveGame, error) {
	row := d.db.QueryRow(d.qb.Build(`
		SELECT ` + saveGameColumns + `
		FROM save_games
		WHERE game_id = ?
	`), gameID)

	game, err := scanSaveGame(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: save game %d", ErrNotFound, gameID)
	}
	if err != nil {
		return nil, err
	}
	return game, nil
}

// ListSaveGames returns every game, most recently created first.
func (d *Database) ListSaveGames() ([]SaveGame, error) {
	rows, err := d.db.Query(`
		SELECT ` + saveGameColumns + `
		FROM save_games
		ORDER BY game_id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []SaveGame
	for rows.Next() {
		game, err := scanSaveGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *game)
	}
	return games, rows.Err()
}

// DeleteSaveGame removes a game and all of its rooms.
func (d *Database) DeleteSaveGame(gameID int64) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// rooms go first so SQLite connections without foreign keys stay clean
	if _, err := tx.Exec(d.qb.Build(`DELETE FROM room_info WHERE game_id = ?`), gameID); err != nil {
		return err
	}
	result, err := tx.Exec(d.qb.Build(`DELETE FROM save_games WHERE game_id = ?`), gameID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: save game %d", ErrNotFound, gameID)
	}

	return tx.Commit()
}

func (l Layout) args() []any {
	return []any{l.Radius, l.VerticalOffset, l.HorizontalXOffset, l.HorizontalYOffset, l.MaxWalkSteps}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSaveGame(row rowScanner) (*SaveGame, error) {
	var (
		game      SaveGame
		lastSaved sql.NullTime
		seed      int64
	)
	l := &game.Layout
	if err := row.Scan(&game.ID, &game.CreatedAt, &lastSaved, &seed, &l.Radius,
		&l.VerticalOffset, &l.HorizontalXOffset, &l.HorizontalYOffset, &l.MaxWalkSteps); err != nil {
		return nil, err
	}
	if lastSaved.Valid {
		t := lastSaved.Time
		game.LastSaved = &t
	}
	game.WorldSeed = uint64(seed)
	return &game, nil
}

// ImportSaveGame copies a game and its rooms from another database,
// keeping its timestamps. The game gets a new id, which is returned.
func (d *Database) ImportSaveGame(game SaveGame, rooms []RoomRecord) (int64, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := d.qb.BuildWithReturning(`
		INSERT INTO save_games (created_at, last_saved, world_seed, radius,
			vertical_offset, horizontal_x_offset, horizontal_y_offset, max_walk_steps)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, "game_id")
	var lastSaved any
	if game.LastSaved != nil {
		lastSaved = *game.LastSaved
	}
	args := append([]any{game.CreatedAt, lastSaved, int64(game.WorldSeed)}, game.Layout.args()...)

	var id int64
	if d.dialect.SupportsLastInsertID() {
		result, err := tx.Exec(query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to import save game: %w", err)
		}
		if id, err = result.LastInsertId(); err != nil {
			return 0, err
		}
	} else if err := tx.QueryRow(query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to import save game: %w", err)
	}

	stmt, err := tx.Prepare(d.qb.Build(`
		INSERT INTO room_info (game_id, position_x, position_y, cleared, room_type, rng_seed, color)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, r := range rooms {
		if _, err := stmt.Exec(id, r.X, r.Y, boolToInt(r.Cleared), r.RoomType, int64(r.RNGSeed), r.Color); err != nil {
			return 0, fmt.Errorf("failed to import room (%d,%d): %w", r.X, r.Y, err)
		}
	}

	return id, tx.Commit()
}
