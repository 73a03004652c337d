package room

import (
	"encoding/json"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestRoomTypeString(t *testing.T) {
	tests := []struct {
		rt   RoomType
		want string
	}{
		{EmptyRoom(), "empty"},
		{EntranceRoom(), "entrance"},
		{PillarRoom(), "pillar"},
		{CombatRoom(Goblin, Ogre), "combat(goblin,ogre)"},
		{CombatRoom(Thief), "combat(thief)"},
		{PitRoom(1, 4), "pit(1..4)"},
		{ItemRoom(HealingPotion), "item(healing_potion)"},
		{ItemRoom(VisionPotion), "item(vision_potion)"},
		{RoomType{Kind: Kind(42)}, "unknown"},
	}

	for _, tt := range tests {
		if got := tt.rt.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseRoomType(t *testing.T) {
	tests := []struct {
		input string
		want  RoomType
		ok    bool
	}{
		{"empty", EmptyRoom(), true},
		{"entrance", EntranceRoom(), true},
		{"pillar", PillarRoom(), true},
		{"combat(goblin,ogre)", CombatRoom(Goblin, Ogre), true},
		{"combat(thief, goblin)", CombatRoom(Thief, Goblin), true},
		{"  pit(2..6) ", PitRoom(2, 6), true},
		{"item(vision_potion)", ItemRoom(VisionPotion), true},
		{"combat()", RoomType{}, false},
		{"combat(dragon)", RoomType{}, false},
		{"pit(4..4)", RoomType{}, false},
		{"pit(5..1)", RoomType{}, false},
		{"pit(1-4)", RoomType{}, false},
		{"item(sword)", RoomType{}, false},
		{"empty(1)", RoomType{}, false},
		{"combat(goblin", RoomType{}, false},
		{"treasure", RoomType{}, false},
	}

	for _, tt := range tests {
		got, err := ParseRoomType(tt.input)
		if !tt.ok {
			if !errors.Is(err, ErrUnknownRoomType) {
				t.Errorf("ParseRoomType(%q) error = %v, want ErrUnknownRoomType", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRoomType(%q) failed: %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseRoomType(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestRoomTypeEqual(t *testing.T) {
	if CombatRoom(Goblin).Equal(CombatRoom(Goblin, Goblin)) {
		t.Error("monster lists of different length compared equal")
	}
	if PitRoom(1, 4).Equal(PitRoom(1, 5)) {
		t.Error("different damage ranges compared equal")
	}
	if EmptyRoom().Equal(EntranceRoom()) {
		t.Error("different kinds compared equal")
	}
	if !ItemRoom(VisionPotion).Equal(ItemRoom(VisionPotion)) {
		t.Error("identical item rooms compared unequal")
	}
}

func TestRoomTypeIsSafe(t *testing.T) {
	if !EntranceRoom().IsSafe() {
		t.Error("Entrance should be safe")
	}
	if !ItemRoom(HealingPotion).IsSafe() {
		t.Error("Item rooms should be safe")
	}
	if CombatRoom(Goblin).IsSafe() {
		t.Error("Combat should not be safe")
	}
	if PitRoom(1, 2).IsSafe() {
		t.Error("Pit should not be safe")
	}
}

func TestRoomTypeDangerLevel(t *testing.T) {
	tests := []struct {
		rt   RoomType
		want int
	}{
		{EmptyRoom(), 0},
		{CombatRoom(Goblin), 1},
		{CombatRoom(Ogre, Thief), 3},
		{CombatRoom(Ogre, Ogre, Ogre), 5},
		{PitRoom(1, 4), 1},
		{PitRoom(2, 8), 2},
	}
	for _, tt := range tests {
		if got := tt.rt.DangerLevel(); got != tt.want {
			t.Errorf("%s.DangerLevel() = %d, want %d", tt.rt, got, tt.want)
		}
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	orig := CombatRoom(Goblin, Thief)
	c := orig.Clone()
	c.Monsters[0] = Ogre
	if orig.Monsters[0] != Goblin {
		t.Error("Clone shares the monster slice")
	}
}

func TestInfoEncodings(t *testing.T) {
	info := NewInfo(CombatRoom(Thief, Ogre), 99)
	info.MarkCleared()

	data, err := yaml.Marshal(info)
	if err != nil {
		t.Fatalf("yaml.Marshal failed: %v", err)
	}
	var fromYAML Info
	if err := yaml.Unmarshal(data, &fromYAML); err != nil {
		t.Fatalf("yaml.Unmarshal failed: %v\n%s", err, data)
	}
	if !fromYAML.Equal(info) {
		t.Errorf("YAML round trip = %+v, want %+v", fromYAML, *info)
	}

	js, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if want := `{"cleared":true,"type":"combat(thief,ogre)","rng_seed":99}`; string(js) != want {
		t.Errorf("json = %s, want %s", js, want)
	}
}

func TestNewInfoStartsUncleared(t *testing.T) {
	info := NewInfo(PillarRoom(), 7)
	if info.Cleared {
		t.Error("new room should not be cleared")
	}
	info.MarkCleared()
	if !info.Cleared {
		t.Error("MarkCleared did not clear the room")
	}
}
