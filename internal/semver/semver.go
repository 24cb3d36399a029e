// Package semver normalizes loosely-formed native build versions into strict
// major.minor.patch strings and provides comparisons over them.
package semver

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	xsemver "golang.org/x/mod/semver"
)

// ErrInvalid is returned when a version string cannot be coerced into semver.
var ErrInvalid = errors.New("invalid semver")

var (
	strictRe = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	looseRe  = regexp.MustCompile(`\d+(\.\d+){0,2}`)
)

// Normalize coerces a raw native build identifier into a strict
// "major.minor.patch" string. Already-strict input passes through unchanged.
// Loose input (e.g. "1.0", "v2", "1.2.3.4-beta") keeps its first numeric run
// and is zero-padded to three components.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if strictRe.MatchString(trimmed) {
		return trimmed, nil
	}

	match := looseRe.FindString(trimmed)
	if match == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalid, raw)
	}

	parts := strings.Split(match, ".")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	return strings.Join(parts, "."), nil
}

// IsValid reports whether s is a strict major.minor.patch string.
func IsValid(s string) bool {
	return strictRe.MatchString(s)
}

// Compare returns -1, 0 or +1 comparing two strict semver strings.
func Compare(a, b string) int {
	return xsemver.Compare("v"+a, "v"+b)
}

// GreaterThan reports whether a > b.
func GreaterThan(a, b string) bool {
	return Compare(a, b) > 0
}

// GreaterOrEqual reports whether a >= b.
func GreaterOrEqual(a, b string) bool {
	return Compare(a, b) >= 0
}

// LessThan reports whether a < b.
func LessThan(a, b string) bool {
	return Compare(a, b) < 0
}

// Parts splits a strict semver string into its numeric components.
func Parts(s string) (major, minor, patch int, err error) {
	if !strictRe.MatchString(s) {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	fields := strings.SplitN(s, ".", 3)
	major, _ = strconv.Atoi(fields[0])
	minor, _ = strconv.Atoi(fields[1])
	patch, _ = strconv.Atoi(fields[2])
	return major, minor, patch, nil
}
