package database

import (
	"fmt"
	"time"
)

// RoomRecord is one stored room: its grid position, state and floor colour.
// RoomType holds the room type's text form.
type RoomRecord struct {
	X        int
	Y        int
	Cleared  bool
	RoomType string
	RNGSeed  uint64
	Color    int
}

// SaveRooms writes the rooms of a game, replacing any stored room at the
// same position, and stamps the game's last_saved time. The whole batch is
// written in one transaction.
func (d *Database) SaveRooms(gameID int64, rooms []RoomRecord) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(d.qb.Build(`UPDATE save_games SET last_saved = ? WHERE game_id = ?`),
		time.Now().UTC().Truncate(time.Second), gameID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: save game %d", ErrNotFound, gameID)
	}

	stmt, err := tx.Prepare(d.qb.BuildUpsert(
		`INSERT INTO room_info (game_id, position_x, position_y, cleared, room_type, rng_seed, color)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		[]string{"game_id", "position_x", "position_y"},
		[]string{"cleared", "room_type", "rng_seed", "color"},
	))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rooms {
		if _, err := stmt.Exec(gameID, r.X, r.Y, boolToInt(r.Cleared), r.RoomType, int64(r.RNGSeed), r.Color); err != nil {
			return fmt.Errorf("failed to save room (%d,%d): %w", r.X, r.Y, err)
		}
	}

	return tx.Commit()
}

// LoadRooms returns every stored room of a game in scan order.
func (d *Database) LoadRooms(gameID int64) ([]RoomRecord, error) {
	rows, err := d.db.Query(d.qb.Build(`
		SELECT position_x, position_y, cleared, room_type, rng_seed, color
		FROM room_info
		WHERE game_id = ?
		ORDER BY position_y, position_x
	`), gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []RoomRecord
	for rows.Next() {
		var (
			r       RoomRecord
			cleared int
			seed    int64
		)
		if err := rows.Scan(&r.X, &r.Y, &cleared, &r.RoomType, &seed, &r.Color); err != nil {
			return nil, err
		}
		r.Cleared = cleared != 0
		r.RNGSeed = uint64(seed)
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

// MarkRoomCleared flags the room at (x, y) of a game as cleared.
func (d *Database) MarkRoomCleared(gameID int64, x, y int) error {
	result, err := d.db.Exec(d.qb.Build(`
		UPDATE room_info SET cleared = 1
		WHERE game_id = ? AND position_x = ? AND position_y = ?
	`), gameID, x, y)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: room (%d,%d) of save game %d", ErrNotFound, x, y, gameID)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
