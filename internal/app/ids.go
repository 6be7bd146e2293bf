package app

import (
	"strings"

	"github.com/google/uuid"
)

const idPrefix = "restaurant_"

// NewID returns a time-ordered identifier: a UUIDv7 carries a millisecond
// timestamp followed by random bits.
func NewID() string {
	u, err := uuid.NewV7()
	if err != nil {
		// v7 only fails when the random source does; v4 is still unique enough
		u = uuid.New()
	}
	return idPrefix + u.String()
}

// Slugify lower-cases name and collapses every run of characters outside
// [a-z0-9] into one hyphen, trimming hyphens at both ends.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
