// Package mapper translates between storage rows and application entities.
// Conversions never fail: malformed stored values fall back to defaults.
package mapper

import (
	"strings"

	"github.com/google/uuid"
)

// nullID turns an optional reference into a nullable column value. Empty and
// unparsable references are stored as NULL.
func nullID(ref string) uuid.NullUUID {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return uuid.NullUUID{}
	}
	id, err := uuid.Parse(ref)
	if err != nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: id, Valid: true}
}

func refString(id uuid.NullUUID) string {
	if !id.Valid {
		return ""
	}
	return id.UUID.String()
}

// nullString stores blank text as NULL.
func nullString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
