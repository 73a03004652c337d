package mapgen

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/lawnchairsociety/hexdelve/internal/hexgrid"
)

// RoomSeed derives the per-room rng seed from the world seed and the room
// position. It hashes instead of drawing so the generation stream is left
// untouched and a room keeps its seed however the map around it changes.
func RoomSeed(worldSeed uint64, pos hexgrid.Position) uint64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:], worldSeed)
	binary.LittleEndian.PutUint64(buf[8:], uint64(int64(pos.X)))
	binary.LittleEndian.PutUint64(buf[16:], uint64(int64(pos.Y)))
	sum := blake2b.Sum256(buf[:])
	return binary.LittleEndian.Uint64(sum[:8])
}
