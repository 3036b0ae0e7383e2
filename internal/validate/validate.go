// Package validate checks the shape of account and contact identifiers.
package validate

import "regexp"

var (
	// Local part and domain draw from word characters plus '.', '_' and '-'.
	emailPattern = regexp.MustCompile(`^[\p{L}\p{N}_.\-]+@[\p{L}\p{N}_.\-]+\.[\p{L}\p{N}_]{2,3}$`)

	// Anchored at the start only: anything after a valid number is accepted.
	phonePattern = regexp.MustCompile(`^(0/91)?[7-9][0-9]{9}`)
)

// IsValidEmail reports whether s looks like local@domain.tld.
// No trimming or case folding is applied.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPhoneNumber reports whether s starts with an optional "0/91"
// prefix followed by a ten digit number beginning with 7, 8 or 9.
func IsValidPhoneNumber(s string) bool {
	return phonePattern.MatchString(s)
}

