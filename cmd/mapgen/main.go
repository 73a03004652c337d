// Command mapgen draws a hexdelve map as text, either generated from a seed
// or read back from an exported YAML file.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/term"

	"github.com/lawnchairsociety/hexdelve/internal/config"
	"github.com/lawnchairsociety/hexdelve/internal/mapgen"
	"github.com/lawnchairsociety/hexdelve/internal/render"
	"github.com/lawnchairsociety/hexdelve/internal/rng"
)

func main() {
	configFile := flag.String("config", "data/hexdelve.yaml", "Path to config YAML file")
	seedText := flag.String("seed", "", "Map seed in hex (default: random)")
	inputFile := flag.String("input", "", "Exported map YAML file to draw instead of generating")
	outputFile := flag.String("output", "", "Output file (empty for stdout)")
	showLegend := flag.Bool("legend", true, "Show legend")
	lang := flag.String("lang", "en", "Legend language")
	localesDir := flag.String("locales", "locales", "Directory holding <lang>/default.po")
	noColor := flag.Bool("no-color", false, "Disable colours even on a terminal")
	flag.Parse()

	gotext.Configure(*localesDir, *lang, "default")

	m, err := loadOrGenerate(*configFile, *inputFile, *seedText)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	useColor := *outputFile == "" && !*noColor && term.IsTerminal(int(os.Stdout.Fd()))
	r := render.New(render.Options{Color: useColor, Legend: *showLegend})

	var output bytes.Buffer
	if err := r.Render(&output, m); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering map: %v\n", err)
		os.Exit(1)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, output.Bytes(), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Map written to %s\n", *outputFile)
		return
	}
	os.Stdout.Write(output.Bytes())
}

func loadOrGenerate(configFile, inputFile, seedText string) (*mapgen.Map, error) {
	if inputFile != "" {
		if !mapgen.MapFileExists(inputFile) {
			return nil, fmt.Errorf("no map file at %s", inputFile)
		}
		return mapgen.LoadMap(inputFile)
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	gen, err := cfg.Generation.Generator()
	if err != nil {
		return nil, err
	}

	seed := rng.RandomSeed()
	if seedText != "" {
		if seed, err = rng.ParseSeed(seedText); err != nil {
			return nil, err
		}
	}
	return gen.Generate(context.Background(), seed)
}
