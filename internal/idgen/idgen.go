// Package idgen implements the bespoke id scheme §4.D pins verbatim for
// Create's fallback id: hex(millis) + hex(rand32). Repository
// auto-ids use google/uuid instead (repository.withAutoID) — this package exists only
// for the one place an exact shape is pinned.
package idgen

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

// CreateID returns hex(millis) + hex(rand32), the exact format §4.D
// specifies for Create's auto-populated "id" field.
func CreateID() string {
	millis := time.Now().UnixMilli()
	var rnd [4]byte
	_, _ = rand.Read(rnd[:])
	r32 := binary.BigEndian.Uint32(rnd[:])
	return fmt.Sprintf("%x%x", millis, r32)
}
