package wfc

import (
	"fmt"
	"strings"
)

// Color is one of the six floor tile colours a cell can collapse to.
type Color int

const (
	Gray Color = iota
	Red
	Yellow
	Green
	LightBlue
	DarkBlue
)

// NumColors is the size of every constraint domain.
const NumColors = 6

// MarkerColor is the colour fixed on the entrance and pillar rooms.
const MarkerColor = Red

// CarvedColor is the colour written into cells carved by path walks.
const CarvedColor = Gray

// OutlineTexture is the texture drawn for cells that never collapsed.
const OutlineTexture = 14

// String returns the string representation of a Color
func (c Color) String() string {
	switch c {
	case Gray:
		return "gray"
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	case Green:
		return "green"
	case LightBlue:
		return "light_blue"
	case DarkBlue:
		return "dark_blue"
	default:
		return "unknown"
	}
}

// Valid reports whether c is one of the six colours.
func (c Color) Valid() bool {
	return c >= Gray && c <= DarkBlue
}

// TextureIndex returns the tile texture for the colour. The mapping is
// one-to-one and follows the colour order.
func (c Color) TextureIndex() int {
	return int(c)
}

// ColorFromTexture is the inverse of TextureIndex.
func ColorFromTexture(index int) (Color, bool) {
	c := Color(index)
	if !c.Valid() {
		return 0, false
	}
	return c, true
}

// ParseColor converts a colour name back to a Color.
func ParseColor(s string) (Color, error) {
	for _, c := range AllColors() {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("wfc: unknown color %q", s)
}

// AllColors returns the colours in enumeration order.
func AllColors() []Color {
	return []Color{Gray, Red, Yellow, Green, LightBlue, DarkBlue}
}
