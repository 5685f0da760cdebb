// Package identifier generates the derived identifiers used as primary keys.
// User, category, and expense ids are human-readable strings derived from
// the owning entity rather than opaque UUIDs, so they survive export and
// make log lines traceable.
package identifier

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var whitespace = regexp.MustCompile(`\s+`)

// UserBase derives the base user identifier from an email address: the
// local part, lower-cased. Callers must disambiguate collisions by
// suffixing a counter before use.
func UserBase(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return strings.ToLower(local)
}

// Category derives a category identifier from the owning user and the
// category name: lower-cased, whitespace runs collapsed to underscores.
// The id is generated once at creation and kept stable across renames.
func Category(userID, name string) string {
	slug := whitespace.ReplaceAllString(strings.ToLower(name), "_")
	return userID + "_" + slug
}

// Expense derives an expense identifier from the owning user plus an
// 8-character random hex suffix.
func Expense(userID string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return userID + "_" + suffix
}
