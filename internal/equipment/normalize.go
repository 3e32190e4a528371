package equipment

import (
	"strings"

	"github.com/google/uuid"
)

// canonicalUUIDLength is the length of the 8-4-4-4-12 textual UUID form
const canonicalUUIDLength = 36

// NormalizeID maps any item identifier onto a stable UUID-shaped key.
// Canonical UUIDs are lower-cased; any other string is hashed into a
// name-based UUID so static catalog keys and store ids resolve alike.
func NormalizeID(id string) string {
	trimmed := strings.TrimSpace(id)
	if len(trimmed) == canonicalUUIDLength {
		if u, err := uuid.Parse(trimmed); err == nil {
			return u.String()
		}
	}
	return uuid.NewSHA1(ItemNamespace, []byte(strings.ToLower(trimmed))).String()
}
