// Package semester normalizes the many semester encodings seen in the
// wild (numeric, letter-coded, word-coded) onto one canonical id and
// enumerates the candidate encodings the upstream API may expect.
//
// Canonical ids: 1 = 1st term, 2 = summer, 3 = 2nd term, 4 = winter.
package semester

import (
	"strconv"
	"strings"
)

// Value is one encoding of a semester as sent to the upstream API,
// either a string or a number. It is kept loosely typed because the
// upstream accepts both and treats them differently.
type Value = any

// Canonicalize maps a raw semester identifier to its canonical id.
// Unknown identifiers pass through unchanged; the upstream simply
// finds no data for them.
func Canonicalize(sem string) string {
	s := strings.ToUpper(strings.TrimSpace(sem))
	if s == "1" || s == "2" || s == "3" || s == "4" {
		return s
	}
	if s == "S" {
		return "2"
	}
	if s == "W" {
		return "4"
	}
	if s == "FALL" || s == "SECOND" || s == "AUTUMN" {
		return "3"
	}
	return s
}

// Variants returns the ordered list of encodings to try against the
// upstream for a canonical id. Callers try them strictly in order and
// stop at the first one yielding data. Note the "2" fallback for
// canonical "3": some upstream records encode the 2nd term as 2.
func Variants(canon string) []Value {
	switch canon {
	case "1":
		return []Value{"1", 1}
	case "2":
		return []Value{"2", 2, "S"}
	case "3":
		return []Value{"3", 3, "2"}
	case "4":
		return []Value{"4", 4, "W"}
	default:
		if n, err := strconv.Atoi(canon); err == nil {
			return []Value{canon, n}
		}
		return []Value{canon}
	}
}
