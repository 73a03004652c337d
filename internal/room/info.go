package room

// EntranceSeed is the fixed rng seed of the entrance room.
const EntranceSeed uint64 = 0xDEADBEEF

// Info is the gameplay record attached to a map cell that holds a room.
type Info struct {
	Cleared bool     `yaml:"cleared" json:"cleared"`
	Type    RoomType `yaml:"type" json:"type"`
	RNGSeed uint64   `yaml:"rng_seed" json:"rng_seed"`
}

// NewInfo returns an uncleared room of the given type.
func NewInfo(t RoomType, seed uint64) *Info {
	return &Info{Type: t, RNGSeed: seed}
}

// MarkCleared records that the player has resolved the room.
func (i *Info) MarkCleared() {
	i.Cleared = true
}

// Equal reports whether two records match field for field.
func (i *Info) Equal(o *Info) bool {
	if i == nil || o == nil {
		return i == o
	}
	return i.Cleared == o.Cleared && i.RNGSeed == o.RNGSeed && i.Type.Equal(o.Type)
}
