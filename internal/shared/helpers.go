// Package shared provides common utility functions used across multiple
// packages in the aurdist codebase.
package shared

import (
	"fmt"
	"strings"
)

// CommandError wraps a command execution error with its trimmed output
// for cleaner error messages.
func CommandError(output []byte, err error) error {
	return fmt.Errorf("%s: %w", strings.TrimSpace(string(output)), err)
}

// HTTPStatusError creates a formatted error for non-2xx HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}

// ArchiveSuffix is the package archive extension produced by the build
// tool and indexed by repo-add.
const ArchiveSuffix = ".pkg.tar.zst"

// SplitArchiveName splits a built archive filename into package name
// and version string. Filenames follow
// name-[epoch:]pkgver-pkgrel-arch.pkg.tar.zst; pkgver and pkgrel never
// contain hyphens, the name may.
func SplitArchiveName(filename string) (string, string, bool) {
	base := strings.TrimSuffix(filename, ArchiveSuffix)
	if base == filename {
		return "", "", false
	}
	parts := strings.Split(base, "-")
	if len(parts) < 4 {
		return "", "", false
	}
	name := strings.Join(parts[:len(parts)-3], "-")
	version := parts[len(parts)-3] + "-" + parts[len(parts)-2]
	if name == "" || version == "-" {
		return "", "", false
	}
	return name, version, true
}
