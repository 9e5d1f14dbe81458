// Package idgen derives the short identifiers users type to select problems.
package idgen

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// ShortIDLength is the number of hex characters in a short id.
const ShortIDLength = 7

// ShortID returns the short identifier for a problem id (its directory
// path). The path is cleaned first so "/a/b/" and "/a/b" agree.
// Seven hex characters leave room for collisions; callers must not treat
// the result as unique.
func ShortID(problemID string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(problemID)))
	return hex.EncodeToString(sum[:])[:ShortIDLength]
}
