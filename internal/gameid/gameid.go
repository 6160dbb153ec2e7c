// Package gameid produces compact, URL-safe game identifiers: a UUID encoded
// as 26 characters of Crockford base32, as TypeID does.
package gameid

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded id.
const Length = 26

// namespace scopes seeded ids so they never collide with other SHA1 UUIDs.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("cardtable/game"))

// New returns a time-sortable id backed by a UUIDv7.
func New() string {
	return Encode(uuid.Must(uuid.NewV7()))
}

// FromSeed returns the id of the game played at table with seed. The same
// inputs always give the same id, so replays land on the same record.
func FromSeed(table string, seed int64) string {
	return Encode(uuid.NewSHA1(namespace, fmt.Appendf(nil, "%s/%d", table, seed)))
}

// Encode writes u as 26 base32 characters. The 128 bits are treated as a
// 130-bit number with two leading zero bits, so the first character is 0-7.
func Encode(u uuid.UUID) string {
	hi := binary.BigEndian.Uint64(u[:8])
	lo := binary.BigEndian.Uint64(u[8:])

	out := make([]byte, Length)
	for i := Length - 1; i >= 0; i-- {
		out[i] = alphabet[lo&0x1f]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out)
}

// Decode parses an id produced by Encode.
func Decode(id string) (uuid.UUID, error) {
	if err := Validate(id); err != nil {
		return uuid.Nil, err
	}
	var hi, lo uint64
	for i := 0; i < Length; i++ {
		v := uint64(strings.IndexByte(alphabet, id[i]))
		hi = hi<<5 | lo>>59
		lo = lo<<5 | v
	}
	var u uuid.UUID
	binary.BigEndian.PutUint64(u[:8], hi)
	binary.BigEndian.PutUint64(u[8:], lo)
	return u, nil
}

// Validate checks if a game ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}
