package docid

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"regexp"
	"time"
)

var pattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// New returns a 24-hex-character document id: a 4-byte big-endian unix
// timestamp followed by 8 random bytes. Sortable by creation second and
// unique enough for a per-row identifier.
func New() string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[:4], uint32(time.Now().Unix()))
	if _, err := rand.Read(b[4:]); err != nil {
		// crypto/rand failing means the platform is broken; fall back to
		// a nanosecond fill rather than returning a half-zero id.
		binary.BigEndian.PutUint64(b[4:], uint64(time.Now().UnixNano()))
	}
	return hex.EncodeToString(b[:])
}

// IsValid reports whether s has the 24-hex-character shape of a document id.
func IsValid(s string) bool {
	return pattern.MatchString(s)
}
