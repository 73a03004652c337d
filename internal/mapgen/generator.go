package mapgen

import (
	"context"
	"fmt"

	"github.com/lawnchairsociety/hexdelve/internal/logger"
	"github.com/lawnchairsociety/hexdelve/internal/rng"
	"github.com/lawnchairsociety/hexdelve/internal/room"
	"github.com/lawnchairsociety/hexdelve/internal/wfc"
)

// Generator builds maps from seeds. It holds no per-map state, so one
// Generator may serve concurrent Generate calls.
type Generator struct {
	params Params
	table  *room.Table
}

// NewGenerator creates a generator after validating params. A nil table
// selects the default room distribution.
func NewGenerator(params Params, table *room.Table) (*Generator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if table == nil {
		table = room.DefaultTable()
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &Generator{params: params, table: table}, nil
}

// Params returns the generation parameters.
func (g *Generator) Params() Params { return g.params }

// Generate creates the map for seed. All randomness comes from one stream
// seeded with seed, consumed in a fixed order: the collapse, then pillar
// placement, then room assignment along the carved walks. Any error
// discards the whole map.
func (g *Generator) Generate(ctx context.Context, seed uint64) (*Map, error) {
	m, err := newMap(g.params, seed)
	if err != nil {
		return nil, err
	}
	src := rng.New(seed)

	solver := wfc.NewSolver(m.Cells, src)
	if err := solver.Fix(m.Entrance, wfc.MarkerColor); err != nil {
		return nil, fmt.Errorf("fixing entrance: %w", err)
	}
	m.Rooms.Set(m.Entrance, room.NewInfo(room.EntranceRoom(), room.EntranceSeed))

	if err := solver.Run(ctx); err != nil {
		return nil, fmt.Errorf("collapse: %w", err)
	}
	if err := solver.Verify(); err != nil {
		return nil, fmt.Errorf("collapse: %w", err)
	}
	stats := solver.Stats()
	logger.Debug("Collapse finished",
		"seed", rng.FormatSeed(seed),
		"steps", solver.Steps(),
		"collapsed", stats.Collapsed,
		"exhausted", stats.Exhausted)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := placePillars(m, src); err != nil {
		return nil, err
	}
	logger.Debug("Pillars placed", "seed", rng.FormatSeed(seed), "pillars", fmt.Sprint(m.Pillars))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := carvePaths(m, src, g.table); err != nil {
		return nil, err
	}

	carved := 0
	for _, w := range m.Walks {
		carved += w.Carved
	}
	logger.Info("Generated map",
		"seed", rng.FormatSeed(seed),
		"radius", g.params.Radius,
		"cells", m.Cells.Len(),
		"exhausted", stats.Exhausted,
		"carved", carved,
		"draws", src.Draws())

	return m, nil
}
