// migrate-to-postgres copies save games from SQLite to PostgreSQL.
//
// Usage:
//
//	go run ./cmd/migrate-to-postgres \
//	    -sqlite data/hexdelve.db \
//	    -pg-host localhost \
//	    -pg-port 5432 \
//	    -pg-user hexdelve \
//	    -pg-password hexdelve \
//	    -pg-database hexdelve
package main

import (
	"flag"
	"log"

	"github.com/lawnchairsociety/hexdelve/internal/database"
)

func main() {
	sqlitePath := flag.String("sqlite", "data/hexdelve.db", "Path to SQLite database")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "hexdelve", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "hexdelve", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be migrated without making changes")
	flag.Parse()

	log.Println("SQLite to PostgreSQL Migration Tool")
	log.Println("====================================")

	log.Printf("Opening SQLite database: %s", *sqlitePath)
	src, err := database.Open(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite database: %v", err)
	}
	defer src.Close()

	games, err := src.ListSaveGames()
	if err != nil {
		log.Fatalf("Failed to list save games: %v", err)
	}

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
		var rooms int
		for _, g := range games {
			records, err := src.LoadRooms(g.ID)
			if err != nil {
				log.Fatalf("Failed to read rooms of game %d: %v", g.ID, err)
			}
			rooms += len(records)
		}
		log.Printf("Would migrate %d save games with %d rooms", len(games), rooms)
		return
	}

	cfg := database.DefaultConfig("")
	cfg.Driver = "postgres"
	cfg.Postgres.Host = *pgHost
	cfg.Postgres.Port = *pgPort
	cfg.Postgres.User = *pgUser
	cfg.Postgres.Password = *pgPassword
	cfg.Postgres.Database = *pgDatabase
	cfg.Postgres.SSLMode = *pgSSLMode

	log.Printf("Opening PostgreSQL database: %s@%s:%d/%s", *pgUser, *pgHost, *pgPort, *pgDatabase)
	dst, err := database.OpenWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL database: %v", err)
	}
	defer dst.Close()

	var totalRooms int
	// oldest first so new ids keep the original order
	for i := len(games) - 1; i >= 0; i-- {
		g := games[i]
		rooms, err := src.LoadRooms(g.ID)
		if err != nil {
			log.Fatalf("Failed to read rooms of game %d: %v", g.ID, err)
		}
		id, err := dst.ImportSaveGame(g, rooms)
		if err != nil {
			log.Fatalf("Failed to migrate game %d: %v", g.ID, err)
		}
		log.Printf("  game %d -> %d (%d rooms)", g.ID, id, len(rooms))
		totalRooms += len(rooms)
	}

	log.Println("====================================")
	log.Printf("Migration complete! %d save games, %d rooms", len(games), totalRooms)
}
