package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/lawnchairsociety/hexdelve/internal/config"
	"github.com/lawnchairsociety/hexdelve/internal/database"
	"github.com/lawnchairsociety/hexdelve/internal/logger"
	"github.com/lawnchairsociety/hexdelve/internal/mapgen"
	"github.com/lawnchairsociety/hexdelve/internal/render"
	"github.com/lawnchairsociety/hexdelve/internal/rng"
	"github.com/lawnchairsociety/hexdelve/internal/savegame"
	"github.com/lawnchairsociety/hexdelve/internal/server"
)

func main() {
	configFile := flag.String("config", "data/hexdelve.yaml", "Path to config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	seedText := flag.String("seed", "", "Map seed in hex (default: random)")
	save := flag.Bool("save", false, "Store the map as a new save game, or write back the game given with -load")
	loadID := flag.Int64("load", 0, "Load the save game with this id instead of generating")
	list := flag.Bool("list", false, "List save games and exit")
	exportFile := flag.String("export", "", "Write the map to a YAML file")
	serve := flag.Bool("serve", false, "Run the websocket preview feed until interrupted")
	quiet := flag.Bool("quiet", false, "Do not draw the map")
	flag.Parse()

	// Initialize logger first (before any logging)
	logConfig, err := logger.LoadConfig(*loggingConfig)
	if err != nil {
		log.Fatalf("Failed to load logging config: %v", err)
	}
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gen, err := cfg.Generation.Generator()
	if err != nil {
		log.Fatalf("Failed to set up generator: %v", err)
	}

	if *serve {
		runPreview(cfg, gen)
		return
	}

	needDB := *save || *loadID != 0 || *list
	var db *database.Database
	if needDB {
		db, err = database.OpenWithConfig(cfg.Database)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()
		logger.Info("Save-game database opened", "driver", cfg.Database.Driver)
	}

	if *list {
		listGames(db)
		return
	}

	var m *mapgen.Map
	if *loadID != 0 {
		m, err = savegame.Load(db, *loadID)
		if err != nil {
			log.Fatalf("Failed to load game %d: %v", *loadID, err)
		}
	} else {
		seed := rng.RandomSeed()
		random := true
		if *seedText != "" {
			if seed, err = rng.ParseSeed(*seedText); err != nil {
				log.Fatalf("Invalid seed: %v", err)
			}
			random = false
		}
		logger.Info("Map seed selected", "seed", rng.FormatSeed(seed), "random", random)

		m, err = gen.Generate(context.Background(), seed)
		if err != nil {
			log.Fatalf("Generation failed: %v", err)
		}
	}

	if *save {
		if err := saveMap(db, *loadID, m); err != nil {
			log.Fatalf("Failed to save map: %v", err)
		}
	}

	if *exportFile != "" {
		if err := mapgen.SaveMap(m, *exportFile); err != nil {
			log.Fatalf("Failed to export map: %v", err)
		}
		fmt.Printf("Map exported to %s\n", *exportFile)
	}

	if !*quiet {
		r := render.New(render.Options{Color: term.IsTerminal(int(os.Stdout.Fd()))})
		if err := r.Render(os.Stdout, m); err != nil {
			log.Fatalf("Failed to draw map: %v", err)
		}
	}
}

// saveMap writes m back to game gameID, or to a new game when gameID is 0.
func saveMap(db *database.Database, gameID int64, m *mapgen.Map) error {
	if gameID != 0 {
		if err := savegame.SaveRooms(db, gameID, m); err != nil {
			return err
		}
		fmt.Printf("Updated game %d\n", gameID)
		return nil
	}

	id, err := savegame.Save(db, m)
	if err != nil {
		return err
	}
	fmt.Printf("Saved as game %d\n", id)
	return nil
}

func listGames(db *database.Database) {
	games, err := db.ListSaveGames()
	if err != nil {
		log.Fatalf("Failed to list save games: %v", err)
	}
	if len(games) == 0 {
		fmt.Println("No save games.")
		return
	}
	for _, g := range games {
		saved := "never"
		if g.LastSaved != nil {
			saved = g.LastSaved.Local().Format("2006-01-02 15:04:05")
		}
		fmt.Printf("%4d  seed %-16s  radius %-2d  created %s  saved %s\n",
			g.ID, rng.FormatSeed(g.WorldSeed), g.Radius,
			g.CreatedAt.Local().Format("2006-01-02 15:04:05"), saved)
	}
}

func runPreview(cfg *config.Config, gen *mapgen.Generator) {
	srv := server.NewServer(cfg.Preview, gen)

	if len(cfg.Preview.AllowedOrigins) == 0 {
		logger.Info("WebSocket CORS policy", "mode", "same-origin")
	} else if len(cfg.Preview.AllowedOrigins) == 1 && cfg.Preview.AllowedOrigins[0] == "*" {
		logger.Warning("WebSocket CORS allows all origins (not recommended for production)")
	} else {
		logger.Info("WebSocket CORS policy", "allowed_origins", cfg.Preview.AllowedOrigins)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("Preview feed error: %v", err)
		}
	}()

	logger.Info("Press Ctrl+C to shutdown")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down preview feed")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Preview feed shutdown failed", "error", err)
	}
}
