package database

import (
	"fmt"
	"os"
	"testing"
)

// getPostgresTestConfig returns PostgreSQL config if available, nil otherwise.
// Set these environment variables to run PostgreSQL tests:
//
//	HEXDELVE_TEST_PG_HOST (required to enable the tests)
//	HEXDELVE_TEST_PG_PORT (default: 5432)
//	HEXDELVE_TEST_PG_USER (default: hexdelve)
//	HEXDELVE_TEST_PG_PASSWORD (default: hexdelve)
//	HEXDELVE_TEST_PG_DATABASE (default: hexdelve_test)
func getPostgresTestConfig() *Config {
	host := os.Getenv("HEXDELVE_TEST_PG_HOST")
	if host == "" {
		return nil
	}

	cfg := DefaultConfig("")
	cfg.Driver = "postgres"
	cfg.Postgres.Host = host
	cfg.Postgres.User = envOr("HEXDELVE_TEST_PG_USER", "hexdelve")
	cfg.Postgres.Password = envOr("HEXDELVE_TEST_PG_PASSWORD", "hexdelve")
	cfg.Postgres.Database = envOr("HEXDELVE_TEST_PG_DATABASE", "hexdelve_test")
	cfg.Postgres.MaxOpenConns = 5
	if portStr := os.Getenv("HEXDELVE_TEST_PG_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &cfg.Postgres.Port)
	}
	return &cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func openPostgresTestDB(t *testing.T) *Database {
	t.Helper()
	cfg := getPostgresTestConfig()
	if cfg == nil {
		t.Skip("Skipping PostgreSQL test: HEXDELVE_TEST_PG_HOST not set")
	}

	db, err := OpenWithConfig(*cfg)
	if err != nil {
		t.Fatalf("OpenWithConfig failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPostgres_OpenWithConfig(t *testing.T) {
	db := openPostgresTestDB(t)

	if _, ok := db.Dialect().(*PostgresDialect); !ok {
		t.Errorf("Dialect() = %T, want *PostgresDialect", db.Dialect())
	}
	if v, err := db.Version(); err != nil || v != SchemaVersion {
		t.Errorf("Version() = %d, %v", v, err)
	}
}

func TestPostgres_SaveGameRoundTrip(t *testing.T) {
	db := openPostgresTestDB(t)

	game, err := db.CreateSaveGame(^uint64(0), Layout{Radius: 5})
	if err != nil {
		t.Fatalf("CreateSaveGame failed: %v", err)
	}
	defer db.DeleteSaveGame(game.ID)

	rooms := []RoomRecord{
		{X: 5, Y: 5, RoomType: "entrance", RNGSeed: 0xDEADBEEF, Color: 1},
		{X: 6, Y: 5, RoomType: "pit(2..6)", RNGSeed: 1 << 63},
	}
	if err := db.SaveRooms(game.ID, rooms); err != nil {
		t.Fatalf("SaveRooms failed: %v", err)
	}
	if err := db.SaveRooms(game.ID, rooms); err != nil {
		t.Fatalf("repeated SaveRooms failed: %v", err)
	}
	if err := db.MarkRoomCleared(game.ID, 6, 5); err != nil {
		t.Fatalf("MarkRoomCleared failed: %v", err)
	}

	loaded, err := db.LoadRooms(game.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 || !loaded[1].Cleared || loaded[1].RNGSeed != 1<<63 {
		t.Errorf("LoadRooms() = %+v", loaded)
	}

	got, err := db.GetSaveGame(game.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.WorldSeed != ^uint64(0) {
		t.Errorf("WorldSeed = %x", got.WorldSeed)
	}
}
