// Package uuid generates time-ordered UUIDv7 identifiers for database keys.
package uuid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	googleuuid "github.com/google/uuid"
)

// New generates a new UUIDv7 based on the current timestamp.
// UUIDv7 sorts by creation time, which keeps primary key indexes dense.
//
// Layout (RFC 4122):
//   - 48 bits: Unix timestamp in milliseconds
//   - 4 bits: version (0111 = 7)
//   - 12 bits: random data
//   - 2 bits: variant (10)
//   - 62 bits: random data
func New() string {
	var id [16]byte

	timestamp := uint64(time.Now().UnixMilli())
	binary.BigEndian.PutUint64(id[0:8], timestamp<<16)

	if _, err := rand.Read(id[6:]); err != nil {
		// Fall back to a standard UUIDv4 if random generation fails.
		return googleuuid.New().String()
	}

	id[6] = (id[6] & 0x0f) | 0x70 // version 7
	id[8] = (id[8] & 0x3f) | 0x80 // variant 10

	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		binary.BigEndian.Uint32(id[0:4]),
		binary.BigEndian.Uint16(id[4:6]),
		binary.BigEndian.Uint16(id[6:8]),
		binary.BigEndian.Uint16(id[8:10]),
		id[10:16],
	)
}

// IsValid reports whether s is a parseable UUID.
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
