package wfc

// Rules defines adjacency constraints for the collapse pass
type Rules struct {
	// Excludes lists, for each colour, the colours a collapse to it clears
	// from neighbouring Open cells
	Excludes map[Color][]Color
}

// DefaultRules returns the standard rules: neighbouring rooms never share a
// colour, so a collapse clears exactly its own colour around it
func DefaultRules() *Rules {
	r := &Rules{Excludes: make(map[Color][]Color)}
	for _, c := range AllColors() {
		r.setExcludes(c, c)
	}
	return r
}

// setExcludes sets the excluded neighbour colours for c
func (r *Rules) setExcludes(c Color, excluded ...Color) {
	if r.Excludes == nil {
		r.Excludes = make(map[Color][]Color)
	}
	r.Excludes[c] = excluded
}

// Exclusions returns the colours cleared around a cell collapsed to c
func (r *Rules) Exclusions(c Color) []Color {
	return r.Excludes[c]
}

// CanBeAdjacent returns true if a collapse to a leaves b admissible next to it
func (r *Rules) CanBeAdjacent(a, b Color) bool {
	for _, ex := range r.Excludes[a] {
		if ex == b {
			return false
		}
	}
	for _, ex := range r.Excludes[b] {
		if ex == a {
			return false
		}
	}
	return true
}
