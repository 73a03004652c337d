// Package render draws generated maps as text for terminals and logs.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/leonelquinteros/gotext"

	"github.com/lawnchairsociety/hexdelve/internal/hexgrid"
	"github.com/lawnchairsociety/hexdelve/internal/mapgen"
	"github.com/lawnchairsociety/hexdelve/internal/room"
	"github.com/lawnchairsociety/hexdelve/internal/wfc"
)

// Room glyphs
const (
	GlyphEntrance = "@"
	GlyphPillar   = "#"
	GlyphCombat   = "C"
	GlyphPit      = "O"
	GlyphItem     = "$"
	GlyphEmpty    = "+"
	GlyphOutline  = "x"
	GlyphOpen     = "?"
)

// colorGlyphs are the plain-text glyphs of collapsed cells without a room.
var colorGlyphs = map[wfc.Color]string{
	wfc.Gray:      ".",
	wfc.Red:       "r",
	wfc.Yellow:    "y",
	wfc.Green:     "g",
	wfc.LightBlue: "b",
	wfc.DarkBlue:  "d",
}

var colorStyles = map[wfc.Color]color.Style{
	wfc.Gray:      {color.FgGray},
	wfc.Red:       {color.FgRed, color.OpBold},
	wfc.Yellow:    {color.FgYellow},
	wfc.Green:     {color.FgGreen},
	wfc.LightBlue: {color.FgLightCyan},
	wfc.DarkBlue:  {color.FgBlue},
}

var (
	styleRoom    = color.Style{color.FgWhite, color.OpBold}
	styleOutline = color.Style{color.FgDarkGray}
	styleSubtle  = color.Style{color.FgGray, color.OpBold}
)

// Options controls how a map is drawn.
type Options struct {
	// Color enables ANSI styles. Callers turn it off when the output is not
	// a terminal.
	Color bool
	// Legend appends a key of the glyphs and the room counts.
	Legend bool
	// Translate localises legend labels. Nil uses gotext.Get.
	Translate func(string, ...any) string
}

// Renderer draws maps with a fixed set of options.
type Renderer struct {
	opts Options
}

// New creates a renderer.
func New(opts Options) *Renderer {
	if opts.Translate == nil {
		opts.Translate = gotext.Get
	}
	return &Renderer{opts: opts}
}

// Render writes m to w as staggered hex rows, one glyph per cell.
func (r *Renderer) Render(w io.Writer, m *mapgen.Map) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, r.paint(styleSubtle, r.opts.Translate("Seed %x, radius %d", m.Seed, m.Params.Radius)))
	for _, line := range r.Rows(m) {
		fmt.Fprintln(bw, line)
	}
	if r.opts.Legend {
		r.writeLegend(bw, m)
	}

	return bw.Flush()
}

// Rows returns the drawn rows of m, top to bottom. Each row is indented by
// its distance from the centre row so neighbouring rows interlock.
func (r *Renderer) Rows(m *mapgen.Map) []string {
	radius := m.Params.Radius
	width := m.Cells.Width()
	rows := make([]string, 0, width)

	for y := 0; y < width; y++ {
		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", abs(y-radius)))
		first := true
		for x := 0; x < width; x++ {
			p := hexgrid.Position{X: x, Y: y}
			if !m.Cells.Contains(p) {
				continue
			}
			if !first {
				sb.WriteByte(' ')
			}
			first = false
			sb.WriteString(r.glyph(m, p))
		}
		rows = append(rows, sb.String())
	}
	return rows
}

func (r *Renderer) glyph(m *mapgen.Map, p hexgrid.Position) string {
	cell, _ := m.Cells.Get(p)

	if info, ok := m.RoomAt(p); ok {
		return r.paint(styleRoom, RoomGlyph(info.Type.Kind))
	}

	switch cell.State {
	case wfc.Open:
		return GlyphOpen
	case wfc.Exhausted:
		return r.paint(styleOutline, GlyphOutline)
	}

	c, _ := cell.Color()
	if r.opts.Color {
		// colour carries the information, so every floor cell shares a glyph
		return colorStyles[c].Sprint("*")
	}
	return colorGlyphs[c]
}

func (r *Renderer) paint(s color.Style, text string) string {
	if !r.opts.Color {
		return text
	}
	return s.Sprint(text)
}

// RoomGlyph returns the glyph drawn for a room kind.
func RoomGlyph(k room.Kind) string {
	switch k {
	case room.KindEntrance:
		return GlyphEntrance
	case room.KindPillar:
		return GlyphPillar
	case room.KindCombat:
		return GlyphCombat
	case room.KindPit:
		return GlyphPit
	case room.KindItem:
		return GlyphItem
	default:
		return GlyphEmpty
	}
}

func (r *Renderer) writeLegend(w io.Writer, m *mapgen.Map) {
	tr := r.opts.Translate
	fmt.Fprintln(w)
	fmt.Fprintln(w, r.paint(styleSubtle, tr("Legend")))

	kinds := []struct {
		kind  room.Kind
		label string
	}{
		{room.KindEntrance, "Entrance"},
		{room.KindPillar, "Pillar"},
		{room.KindCombat, "Combat room"},
		{room.KindPit, "Pit room"},
		{room.KindItem, "Item room"},
		{room.KindEmpty, "Empty room"},
	}
	for _, k := range kinds {
		fmt.Fprintf(w, "  %s  %s (%d)\n", RoomGlyph(k.kind), tr(k.label), m.CountKind(k.kind))
	}

	st := wfc.CountStates(m.Cells)
	fmt.Fprintf(w, "  %s  %s (%d)\n", GlyphOutline, tr("Outline"), st.Exhausted)
	if !r.opts.Color {
		for _, c := range wfc.AllColors() {
			fmt.Fprintf(w, "  %s  %s\n", colorGlyphs[c], tr(c.String()))
		}
	}
	fmt.Fprintf(w, "%s\n", tr("Walks: %d, rooms carved: %d", len(m.Walks), carved(m)))
}

func carved(m *mapgen.Map) int {
	n := 0
	for _, w := range m.Walks {
		n += w.Carved
	}
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
