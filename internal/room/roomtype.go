package room

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownRoomType = errors.New("room: unknown room type")
)

// Kind represents the category of a room
type Kind int

const (
	KindEmpty    Kind = iota // Nothing interesting
	KindEntrance             // Map centre, also the exit
	KindPillar               // One of the four collectible pillars
	KindCombat               // Holds monsters to fight
	KindPit                  // Spike pit dealing damage on entry
	KindItem                 // Grants an item on entry
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindEntrance:
		return "entrance"
	case KindPillar:
		return "pillar"
	case KindCombat:
		return "combat"
	case KindPit:
		return "pit"
	case KindItem:
		return "item"
	default:
		return "unknown"
	}
}

// Monster identifies an enemy that can occupy a combat room
type Monster int

const (
	Thief Monster = iota
	Ogre
	Goblin
)

// String returns the string representation of a Monster
func (m Monster) String() string {
	switch m {
	case Thief:
		return "thief"
	case Ogre:
		return "ogre"
	case Goblin:
		return "goblin"
	default:
		return "unknown"
	}
}

// ParseMonster converts a string to a Monster
func ParseMonster(s string) (Monster, bool) {
	switch s {
	case "thief":
		return Thief, true
	case "ogre":
		return Ogre, true
	case "goblin":
		return Goblin, true
	default:
		return Thief, false
	}
}

// Item identifies a pickup found in an item room
type Item int

const (
	HealingPotion Item = iota
	VisionPotion
)

// String returns the string representation of an Item
func (i Item) String() string {
	switch i {
	case HealingPotion:
		return "healing_potion"
	case VisionPotion:
		return "vision_potion"
	default:
		return "unknown"
	}
}

// ParseItem converts a string to an Item
func ParseItem(s string) (Item, bool) {
	switch s {
	case "healing_potion":
		return HealingPotion, true
	case "vision_potion":
		return VisionPotion, true
	default:
		return HealingPotion, false
	}
}

// DamageRange is the half-open range [Min, Max) of damage a pit deals.
type DamageRange struct {
	Min uint32
	Max uint32
}

// String returns "min..max".
func (d DamageRange) String() string {
	return fmt.Sprintf("%d..%d", d.Min, d.Max)
}

// RoomType is the gameplay variant of a room. Monsters is set only for
// combat rooms, Damage only for pits and Item only for item rooms.
type RoomType struct {
	Kind     Kind
	Monsters []Monster
	Damage   DamageRange
	Item     Item
}

// EmptyRoom returns a room with nothing in it.
func EmptyRoom() RoomType { return RoomType{Kind: KindEmpty} }

// EntranceRoom returns the entrance room type.
func EntranceRoom() RoomType { return RoomType{Kind: KindEntrance} }

// PillarRoom returns the pillar room type.
func PillarRoom() RoomType { return RoomType{Kind: KindPillar} }

// CombatRoom returns a combat room holding the given monsters.
func CombatRoom(monsters ...Monster) RoomType {
	return RoomType{Kind: KindCombat, Monsters: append([]Monster(nil), monsters...)}
}

// PitRoom returns a spike pit dealing damage in [min, max).
func PitRoom(min, max uint32) RoomType {
	return RoomType{Kind: KindPit, Damage: DamageRange{Min: min, Max: max}}
}

// ItemRoom returns a room granting item.
func ItemRoom(item Item) RoomType {
	return RoomType{Kind: KindItem, Item: item}
}

// Clone returns a copy that shares no memory with t.
func (t RoomType) Clone() RoomType {
	if t.Monsters != nil {
		t.Monsters = append([]Monster(nil), t.Monsters...)
	}
	return t
}

// Equal reports whether two room types describe the same room.
func (t RoomType) Equal(o RoomType) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindCombat:
		if len(t.Monsters) != len(o.Monsters) {
			return false
		}
		for i := range t.Monsters {
			if t.Monsters[i] != o.Monsters[i] {
				return false
			}
		}
	case KindPit:
		return t.Damage == o.Damage
	case KindItem:
		return t.Item == o.Item
	}
	return true
}

// String returns the canonical text form of the room type, for example
// "combat(goblin,ogre)", "pit(1..4)" or "item(healing_potion)".
func (t RoomType) String() string {
	switch t.Kind {
	case KindCombat:
		names := make([]string, len(t.Monsters))
		for i, m := range t.Monsters {
			names[i] = m.String()
		}
		return "combat(" + strings.Join(names, ",") + ")"
	case KindPit:
		return "pit(" + t.Damage.String() + ")"
	case KindItem:
		return "item(" + t.Item.String() + ")"
	default:
		return t.Kind.String()
	}
}

// IsSafe returns true if entering the room cannot hurt the player
func (t RoomType) IsSafe() bool {
	return t.DangerLevel() == 0
}

// DangerLevel returns a danger rating from 0 (safe) to 5 (very dangerous)
func (t RoomType) DangerLevel() int {
	switch t.Kind {
	case KindCombat:
		level := 0
		for _, m := range t.Monsters {
			if m == Ogre {
				level += 2
			} else {
				level++
			}
		}
		return min(level, 5)
	case KindPit:
		if t.Damage.Max > 5 {
			return 2
		}
		return 1
	default:
		return 0
	}
}

// ParseRoomType converts the canonical text form back to a RoomType
func ParseRoomType(s string) (RoomType, error) {
	s = strings.TrimSpace(s)

	name, arg, hasArg := strings.Cut(s, "(")
	if hasArg {
		if !strings.HasSuffix(arg, ")") {
			return RoomType{}, fmt.Errorf("%w: %q", ErrUnknownRoomType, s)
		}
		arg = strings.TrimSuffix(arg, ")")
	}

	switch name {
	case "empty", "entrance", "pillar":
		if hasArg {
			return RoomType{}, fmt.Errorf("%w: %q takes no argument", ErrUnknownRoomType, s)
		}
		switch name {
		case "entrance":
			return EntranceRoom(), nil
		case "pillar":
			return PillarRoom(), nil
		}
		return EmptyRoom(), nil

	case "combat":
		if !hasArg || arg == "" {
			return RoomType{}, fmt.Errorf("%w: %q needs monsters", ErrUnknownRoomType, s)
		}
		var monsters []Monster
		for _, part := range strings.Split(arg, ",") {
			m, ok := ParseMonster(strings.TrimSpace(part))
			if !ok {
				return RoomType{}, fmt.Errorf("%w: unknown monster %q", ErrUnknownRoomType, part)
			}
			monsters = append(monsters, m)
		}
		return CombatRoom(monsters...), nil

	case "pit":
		lo, hi, ok := strings.Cut(arg, "..")
		if !hasArg || !ok {
			return RoomType{}, fmt.Errorf("%w: %q needs a damage range", ErrUnknownRoomType, s)
		}
		min, err1 := strconv.ParseUint(strings.TrimSpace(lo), 10, 32)
		max, err2 := strconv.ParseUint(strings.TrimSpace(hi), 10, 32)
		if err1 != nil || err2 != nil || min >= max {
			return RoomType{}, fmt.Errorf("%w: bad damage range %q", ErrUnknownRoomType, arg)
		}
		return PitRoom(uint32(min), uint32(max)), nil

	case "item":
		item, ok := ParseItem(strings.TrimSpace(arg))
		if !hasArg || !ok {
			return RoomType{}, fmt.Errorf("%w: unknown item %q", ErrUnknownRoomType, arg)
		}
		return ItemRoom(item), nil
	}

	return RoomType{}, fmt.Errorf("%w: %q", ErrUnknownRoomType, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t RoomType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *RoomType) UnmarshalText(text []byte) error {
	parsed, err := ParseRoomType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalYAML writes the room type as its text form.
func (t RoomType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// UnmarshalYAML reads the text form written by MarshalYAML.
func (t *RoomType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return t.UnmarshalText([]byte(s))
}
