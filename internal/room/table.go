package room

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidTable = errors.New("room: invalid room table")
)

// Rand is the random stream a Table draws from.
type Rand interface {
	IntN(n int) int
}

// Entry is one concrete room type and its relative weight.
type Entry struct {
	Type   RoomType `yaml:"type"`
	Weight int      `yaml:"weight"`
}

// Table assigns room types to carved path cells. Each entry is a concrete
// variant with its payload, so an assignment is a single weighted draw.
type Table struct {
	Entries []Entry `yaml:"rooms"`

	total int
}

// NewTable builds and validates a table from entries.
func NewTable(entries ...Entry) (*Table, error) {
	t := &Table{Entries: entries}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// DefaultTable returns the standard room distribution.
func DefaultTable() *Table {
	t, err := NewTable(
		Entry{Type: EmptyRoom(), Weight: 6},
		Entry{Type: CombatRoom(Goblin), Weight: 4},
		Entry{Type: CombatRoom(Thief), Weight: 3},
		Entry{Type: CombatRoom(Goblin, Goblin), Weight: 2},
		Entry{Type: CombatRoom(Ogre), Weight: 2},
		Entry{Type: CombatRoom(Thief, Goblin), Weight: 1},
		Entry{Type: PitRoom(1, 4), Weight: 3},
		Entry{Type: PitRoom(2, 6), Weight: 1},
		Entry{Type: ItemRoom(HealingPotion), Weight: 2},
		Entry{Type: ItemRoom(VisionPotion), Weight: 1},
	)
	if err != nil {
		panic(err)
	}
	return t
}

// LoadTable loads a room table from a YAML file
func LoadTable(filename string) (*Table, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read room table: %w", err)
	}

	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse room table YAML: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks the entries and caches the total weight.
func (t *Table) Validate() error {
	if len(t.Entries) == 0 {
		return fmt.Errorf("%w: no entries", ErrInvalidTable)
	}
	total := 0
	for i, e := range t.Entries {
		if e.Weight <= 0 {
			return fmt.Errorf("%w: entry %d (%s) has weight %d", ErrInvalidTable, i, e.Type, e.Weight)
		}
		if e.Type.Kind == KindEntrance || e.Type.Kind == KindPillar {
			return fmt.Errorf("%w: entry %d: %s rooms are placed, not assigned", ErrInvalidTable, i, e.Type.Kind)
		}
		total += e.Weight
	}
	t.total = total
	return nil
}

// TotalWeight returns the sum of all entry weights.
func (t *Table) TotalWeight() int {
	return t.total
}

// Assign picks a room type with a single draw from r.
func (t *Table) Assign(r Rand) RoomType {
	n := r.IntN(t.total)
	for _, e := range t.Entries {
		if n < e.Weight {
			return e.Type.Clone()
		}
		n -= e.Weight
	}
	// unreachable for a validated table
	return EmptyRoom()
}
