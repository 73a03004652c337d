// Package rng provides the single seeded random stream that drives map
// generation. Every consumer receives the Source explicitly; there is no
// package-level generator, so a seed always reproduces the same map.
package rng

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

var (
	ErrInvalidSeed = errors.New("rng: invalid seed")
)

// streamSalt separates the second PCG word from the seed itself.
const streamSalt = 0x9E3779B97F4A7C15

// Source is a deterministic pseudo-random stream derived from a 64-bit seed.
type Source struct {
	seed  uint64
	r     *rand.Rand
	draws uint64
}

// New creates a Source for the given seed.
func New(seed uint64) *Source {
	return &Source{
		seed: seed,
		r:    rand.New(rand.NewPCG(seed, seed^streamSalt)),
	}
}

// Seed returns the seed the stream was created from.
func (s *Source) Seed() uint64 { return s.seed }

// Draws returns how many values have been taken from the stream.
func (s *Source) Draws() uint64 { return s.draws }

// IntN returns a uniform value in [0, n). It panics if n <= 0.
func (s *Source) IntN(n int) int {
	s.draws++
	return s.r.IntN(n)
}

// Range returns a uniform value in the inclusive range [lo, hi].
func (s *Source) Range(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + s.IntN(hi-lo+1)
}

// ParseSeed reads a seed typed as hexadecimal text, with or without a 0x
// prefix. Surrounding whitespace is ignored.
func ParseSeed(text string) (uint64, error) {
	t := strings.TrimSpace(text)
	t = strings.TrimPrefix(strings.TrimPrefix(t, "0x"), "0X")
	if t == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidSeed)
	}
	v, err := strconv.ParseUint(t, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidSeed, text, err)
	}
	return v, nil
}

// FormatSeed renders a seed the way ParseSeed reads it.
func FormatSeed(seed uint64) string {
	return strconv.FormatUint(seed, 16)
}

// RandomSeed returns a seed from the runtime's OS-seeded generator, used when
// the player leaves the seed blank.
func RandomSeed() uint64 {
	return rand.Uint64()
}
