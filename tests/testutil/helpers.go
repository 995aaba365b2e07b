// Package testutil provides shared filesystem helpers used across the
// adapter and application test packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile writes content under dir, creating parent directories, and
// returns the full path.
func WriteFile(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	fullPath := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o750))
	require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	return fullPath
}

// TouchArchive creates an empty archive file named after the package
// version so filename-derived version scans have something to read.
func TouchArchive(t *testing.T, packagesDir string, filename string) string {
	t.Helper()
	return WriteFile(t, packagesDir, filename, "")
}
