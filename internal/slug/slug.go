// Package slug generates the URL identifiers used by catalog listings and
// verification drafts. Catalog slugs are derived from the machine name and
// made unique with a numeric suffix; draft slugs are collision-resistant by
// construction (timestamp plus random suffix).
package slug

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Make sanitizes a name into a slug: lowercased, runs of non-alphanumeric
// characters collapsed to a single hyphen, leading and trailing hyphens
// stripped. Returns "" when nothing survives sanitization.
func Make(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Unique derives a slug from name and appends -1, -2, ... until exists
// reports it free. Falls back to a timestamp-based slug when the name
// sanitizes to empty.
func Unique(name string, exists func(slug string) (bool, error)) (string, error) {
	base := Make(name)
	candidate := base
	if candidate == "" {
		candidate = fmt.Sprintf("machine-%d", time.Now().UnixMilli())
		base = candidate
	}
	for suffix := 1; ; suffix++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
}

// Draft returns a slug for a new verification draft, unique by
// construction: millisecond timestamp plus a random suffix.
func Draft() string {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		// Timestamp alone still keeps collisions implausible.
		return fmt.Sprintf("machine-%d", time.Now().UnixMilli())
	}
	return fmt.Sprintf("machine-%d-%s", time.Now().UnixMilli(), hex.EncodeToString(buf))
}
