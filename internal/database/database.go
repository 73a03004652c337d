// Package database provides SQL persistence for save games and the rooms of
// their maps, on SQLite or PostgreSQL.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lawnchairsociety/hexdelve/internal/logger"

	_ "modernc.org/sqlite"
)

// SchemaVersion is the schema version this build writes.
const SchemaVersion = 2

var (
	ErrSchemaTooNew = errors.New("database: schema is newer than this build")
	ErrNotFound     = errors.New("database: not found")
)

// Database wraps the SQL connection and provides persistence operations.
type Database struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open opens or creates the SQLite database at the given path.
func Open(path string) (*Database, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig opens the database described by cfg and brings its schema
// up to date.
func OpenWithConfig(cfg Config) (*Database, error) {
	dialect := NewDialect(DialectType(cfg.Driver))

	var dsn string
	switch dialect.(type) {
	case *PostgresDialect:
		dsn = cfg.Postgres.DSN()
	default:
		// Ensure directory exists
		dir := filepath.Dir(cfg.SQLitePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = cfg.SQLitePath
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if pg, ok := dialect.(*PostgresDialect); ok {
		pg.configurePool(db, cfg.Postgres)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}

	d := &Database{db: db, dialect: dialect, qb: NewQueryBuilder(dialect)}

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return d, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Dialect returns the SQL dialect in use.
func (d *Database) Dialect() Dialect {
	return d.dialect
}

// migrate creates the database schema if it doesn't exist and records the
// schema version. A database written by a newer build is refused.
func (d *Database) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)`,

		// One row per started game
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS save_games (
			game_id %s,
			created_at TIMESTAMP NOT NULL,
			last_saved TIMESTAMP,
			world_seed BIGINT NOT NULL,
			radius INTEGER NOT NULL,
			vertical_offset INTEGER NOT NULL DEFAULT 1,
			horizontal_x_offset INTEGER NOT NULL DEFAULT 1,
			horizontal_y_offset INTEGER NOT NULL DEFAULT 1,
			max_walk_steps INTEGER NOT NULL DEFAULT 0
		)`, d.dialect.AutoIncrementPrimaryKey()),

		// Rooms of each game's map, keyed by grid position
		`CREATE TABLE IF NOT EXISTS room_info (
			game_id BIGINT NOT NULL REFERENCES save_games(game_id) ON DELETE CASCADE,
			position_x INTEGER NOT NULL,
			position_y INTEGER NOT NULL,
			cleared INTEGER NOT NULL DEFAULT 0,
			room_type TEXT NOT NULL,
			rng_seed BIGINT NOT NULL,
			color INTEGER NOT NULL,
			PRIMARY KEY (game_id, position_x, position_y)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_room_info_game_id ON room_info(game_id)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	return d.checkVersion()
}

// upgrades holds the statements that bring a database from the previous
// version up to the keyed one.
var upgrades = map[int][]string{
	// version 1 kept only the radius; its games used the default offsets
	2: {
		`ALTER TABLE save_games ADD COLUMN vertical_offset INTEGER NOT NULL DEFAULT 1`,
		`ALTER TABLE save_games ADD COLUMN horizontal_x_offset INTEGER NOT NULL DEFAULT 1`,
		`ALTER TABLE save_games ADD COLUMN horizontal_y_offset INTEGER NOT NULL DEFAULT 1`,
		`ALTER TABLE save_games ADD COLUMN max_walk_steps INTEGER NOT NULL DEFAULT 0`,
	},
}

// checkVersion stamps a fresh database with SchemaVersion, upgrades one
// stamped by an older build and rejects one stamped by a newer build.
func (d *Database) checkVersion() error {
	var stored sql.NullInt64
	if err := d.db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&stored); err != nil {
		return err
	}
	if !stored.Valid {
		return d.stampVersion()
	}

	version := int(stored.Int64)
	if version > SchemaVersion {
		return fmt.Errorf("%w: found version %d, this build supports %d", ErrSchemaTooNew, version, SchemaVersion)
	}
	if version == SchemaVersion {
		return nil
	}

	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for v := version + 1; v <= SchemaVersion; v++ {
		for _, stmt := range upgrades[v] {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("upgrade to version %d failed: %w\nSQL: %s", v, err, stmt)
			}
		}
	}
	if _, err := tx.Exec(d.qb.Build(`INSERT INTO schema_version (version) VALUES (?)`), SchemaVersion); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	logger.Info("Database schema upgraded", "from", version, "to", SchemaVersion)
	return nil
}

func (d *Database) stampVersion() error {
	_, err := d.db.Exec(d.qb.Build(`INSERT INTO schema_version (version) VALUES (?)`), SchemaVersion)
	return err
}

// Version returns the schema version recorded in the database.
func (d *Database) Version() (int, error) {
	var version int
	err := d.db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&version)
	return version, err
}

// DB returns the underlying sql.DB for advanced operations.
func (d *Database) DB() *sql.DB {
	return d.db
}
