package util

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// North American numbers, optional +1 prefix, area code 2-9.
	phonePattern = regexp.MustCompile(`^(?:\+1[-.\s]?)?\(?[2-9]\d{2}\)?[-.\s]?\d{3}[-.\s]?\d{4}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const DateLayout = "2006-01-02"

// IsValidPhone reports whether s is a North American phone number.
func IsValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// IsValidEmail reports whether s looks like an email address.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// NormalizeEmail trims and lower-cases an address so uniqueness and login
// lookups do not depend on the database collation.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsValidDate reports whether s is a calendar date in YYYY-MM-DD form.
func IsValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// NormalizeID checks that id is a syntactically valid record identifier and
// returns it in canonical form.
func NormalizeID(id string) (string, bool) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
