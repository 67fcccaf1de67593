package ids

import (
	"crypto/sha256"
	"encoding/base32"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultLength is the length of record ids handed out by New.
const DefaultLength = 8

var lowerBase32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// Generate hashes input into a lowercase base32 string of at most length
// characters. The same input always yields the same id.
func Generate(input string, length int) string {
	if length <= 0 {
		return ""
	}
	sum := sha256.Sum256([]byte(input))
	encoded := lowerBase32.EncodeToString(sum[:])
	return strings.ToLower(encoded[:min(length, len(encoded))])
}

// GenerateWithTimestamp mixes timestamp into input before hashing.
func GenerateWithTimestamp(input string, timestamp time.Time, length int) string {
	return Generate(input+"\x00"+timestamp.UTC().Format(time.RFC3339Nano), length)
}

// New returns a fresh id for a record created at timestamp. A random salt
// keeps two records with the same input and timestamp apart.
func New(input string, timestamp time.Time) string {
	return GenerateWithTimestamp(input+"\x00"+uuid.NewString(), timestamp, DefaultLength)
}
