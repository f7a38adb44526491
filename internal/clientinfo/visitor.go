package clientinfo

import (
	"crypto/md5"
	"strings"

	"github.com/google/uuid"
)

// VisitorID derives a deterministic UUID from the given components
// (typically website ID, client IP and user agent). The same visitor yields
// the same ID without anything being stored.
func VisitorID(parts ...string) uuid.UUID {
	combined := strings.Join(parts, "|")
	hash := md5.Sum([]byte(combined))
	id, _ := uuid.FromBytes(hash[:])
	return id
}
