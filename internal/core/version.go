package core

import (
	"strconv"
	"strings"

	"github.com/SomethingGeneric/aurdist/internal/types"
)

// ParseVersion splits a pacman-style "[epoch:]pkgver[-pkgrel]" string.
// It never fails: a malformed value parses into whatever fields could
// be recovered and compares as low as possible, so a garbled local
// version forces a rebuild instead of a false "up to date".
func ParseVersion(value string) types.Version {
	value = strings.TrimSpace(value)
	version := types.Version{}
	if idx := strings.Index(value, ":"); idx != -1 {
		if epoch, err := strconv.Atoi(value[:idx]); err == nil && epoch >= 0 {
			version.Epoch = epoch
			value = value[idx+1:]
		}
	}
	if idx := strings.LastIndex(value, "-"); idx != -1 {
		version.Rel = value[idx+1:]
		value = value[:idx]
	}
	version.Ver = value
	return version
}

// Compare implements the pacman vercmp ordering: epoch as integer
// first, then pkgver by alternating digit and non-digit runs, then
// pkgrel with an absent release sorting below any explicit one.
// Returns -1, 0, or 1. Total and transitive.
func Compare(a types.Version, b types.Version) int {
	if a.Epoch != b.Epoch {
		if a.Epoch > b.Epoch {
			return 1
		}
		return -1
	}
	if result := compareSegments(a.Ver, b.Ver); result != 0 {
		return result
	}
	relA := a.Rel
	relB := b.Rel
	if relA == "" {
		relA = "0"
	}
	if relB == "" {
		relB = "0"
	}
	return compareSegments(relA, relB)
}

// CompareStrings parses and compares two raw version strings.
func CompareStrings(a string, b string) int {
	return Compare(ParseVersion(a), ParseVersion(b))
}

// compareSegments walks both strings by runs of digits and runs of
// letters, skipping separator characters. Digit runs compare
// numerically (leading zeros ignored), letter runs lexically, and a
// digit run always beats a letter run. When one string is exhausted,
// a remaining letter run loses ("1.0" > "1.0a") while anything else
// wins ("1.0.1" > "1.0"); trailing separators alone do not matter.
func compareSegments(a string, b string) int {
	if a == b {
		return 0
	}
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		for i < len(a) && !isAlnum(a[i]) {
			i++
		}
		for j < len(b) && !isAlnum(b[j]) {
			j++
		}
		if i >= len(a) || j >= len(b) {
			break
		}
		digits := isDigit(a[i])
		var segA, segB string
		if digits {
			segA, i = takeRun(a, i, isDigit)
			segB, j = takeRun(b, j, isDigit)
		} else {
			segA, i = takeRun(a, i, isAlpha)
			segB, j = takeRun(b, j, isAlpha)
		}
		if segB == "" {
			if digits {
				return 1
			}
			return -1
		}
		if digits {
			segA = strings.TrimLeft(segA, "0")
			segB = strings.TrimLeft(segB, "0")
			if len(segA) != len(segB) {
				if len(segA) > len(segB) {
					return 1
				}
				return -1
			}
		}
		if segA != segB {
			if segA > segB {
				return 1
			}
			return -1
		}
	}
	if i >= len(a) && j >= len(b) {
		return 0
	}
	if i >= len(a) {
		if isAlpha(b[j]) {
			return 1
		}
		return -1
	}
	if isAlpha(a[i]) {
		return -1
	}
	return 1
}

func takeRun(value string, start int, match func(byte) bool) (string, int) {
	end := start
	for end < len(value) && match(value[end]) {
		end++
	}
	return value[start:end], end
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool { return isDigit(c) || isAlpha(c) }
