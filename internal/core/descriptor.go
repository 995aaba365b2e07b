package core

import (
	"strings"

	"github.com/SomethingGeneric/aurdist/internal/types"
)

// Descriptor is the declarative part of a build recipe: the declared
// version and the merged run-time and build-time dependency list.
type Descriptor struct {
	Name         string
	Version      types.Version
	Dependencies []types.Constraint
	Dynamic      bool
}

// dependencyArrays are the PKGBUILD arrays merged into the dependency
// list. optdepends is deliberately excluded.
var dependencyArrays = []string{"depends", "makedepends", "checkdepends"}

// ParseDescriptor extracts the declared version and dependencies from
// build recipe text. The recipe is shell-like but is never executed:
// a pkgver() override makes the static version untrustworthy, so the
// descriptor is returned with Dynamic set alongside a
// DynamicVersionError; dependencies stay usable. A recipe without a
// pkgver field fails with MalformedDescriptorError.
func ParseDescriptor(content string) (Descriptor, error) {
	descriptor := Descriptor{}
	lines := splitContinuations(content)

	var pkgver, pkgrel, epoch string
	collecting := ""
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if collecting != "" {
			body, closed := strings.CutSuffix(trimmed, ")")
			descriptor.Dependencies = append(descriptor.Dependencies, parseArrayEntries(body)...)
			if closed {
				collecting = ""
			}
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if isFunctionDecl(trimmed, "pkgver") {
			descriptor.Dynamic = true
			continue
		}
		if value, ok := fieldValue(trimmed, "pkgname"); ok {
			descriptor.Name = firstWord(value)
			continue
		}
		if value, ok := fieldValue(trimmed, "pkgver"); ok {
			pkgver = value
			continue
		}
		if value, ok := fieldValue(trimmed, "pkgrel"); ok {
			pkgrel = value
			continue
		}
		if value, ok := fieldValue(trimmed, "epoch"); ok {
			epoch = value
			continue
		}
		for _, array := range dependencyArrays {
			prefix := array + "=("
			if strings.HasPrefix(trimmed, prefix) {
				body := strings.TrimPrefix(trimmed, prefix)
				body, closed := strings.CutSuffix(body, ")")
				descriptor.Dependencies = append(descriptor.Dependencies, parseArrayEntries(body)...)
				if !closed {
					collecting = array
				}
				break
			}
		}
	}

	composed := pkgver
	if epoch != "" {
		composed = epoch + ":" + composed
	}
	if pkgrel != "" {
		composed = composed + "-" + pkgrel
	}
	descriptor.Version = ParseVersion(composed)

	if descriptor.Dynamic {
		name := descriptor.Name
		if name == "" {
			name = "descriptor"
		}
		return descriptor, DynamicVersionError(name)
	}
	if pkgver == "" {
		return Descriptor{}, MalformedDescriptorError("pkgver not declared", nil)
	}
	return descriptor, nil
}

// splitContinuations normalizes backslash line continuations before
// line-oriented parsing.
func splitContinuations(content string) []string {
	joined := strings.ReplaceAll(content, "\\\n", " ")
	joined = strings.ReplaceAll(joined, "\\\r\n", " ")
	return strings.Split(joined, "\n")
}

// parseArrayEntries tokenizes one line of array content: quoted or
// bare whitespace-separated entries, with everything after an unquoted
// '#' ignored.
func parseArrayEntries(body string) []types.Constraint {
	var entries []types.Constraint
	for _, token := range tokenize(body) {
		constraint, err := ParseConstraint(token)
		if err != nil {
			continue
		}
		entries = append(entries, constraint)
	}
	return entries
}

func tokenize(body string) []string {
	var tokens []string
	i := 0
	for i < len(body) {
		c := body[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '#':
			return tokens
		case c == '\'' || c == '"':
			end := strings.IndexByte(body[i+1:], c)
			if end == -1 {
				tokens = append(tokens, body[i+1:])
				return tokens
			}
			tokens = append(tokens, body[i+1:i+1+end])
			i += end + 2
		default:
			end := strings.IndexAny(body[i:], " \t#")
			if end == -1 {
				tokens = append(tokens, body[i:])
				return tokens
			}
			tokens = append(tokens, body[i:i+end])
			i += end
		}
	}
	return tokens
}

// fieldValue matches a "key=value" assignment and unquotes the value.
func fieldValue(line string, key string) (string, bool) {
	prefix := key + "="
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	value := strings.TrimPrefix(line, prefix)
	if idx := strings.IndexByte(value, '#'); idx != -1 && !strings.ContainsAny(value[:idx], "'\"") {
		value = value[:idx]
	}
	value = strings.TrimSpace(value)
	value = strings.Trim(value, "'\"")
	return value, true
}

func isFunctionDecl(line string, name string) bool {
	rest, ok := strings.CutPrefix(line, name)
	if !ok {
		return false
	}
	rest = strings.TrimSpace(rest)
	return strings.HasPrefix(rest, "()")
}

func firstWord(value string) string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], "()'\"")
}
