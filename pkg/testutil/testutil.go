// Package testutil provides filesystem fixtures for usdmerge tests:
// destination repos carrying the marker file, source payload trees, and
// fake merge helpers.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/usdtools/usdmerge/pkg/paths"
)

// NewUSDRepo creates a temp directory shaped like a valid USD checkout,
// i.e. carrying the pxr/pxr.h.in marker file.
func NewUSDRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	WriteFile(t, dir, paths.MarkerFile, "// PXR_H_IN\n")
	return dir
}

// NewSourceRoot creates an empty temp directory to hold plugin payload
// trees for a test.
func NewSourceRoot(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

// WriteFile writes content to rel (slash-separated) under root, creating
// parent directories as needed.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()

	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

// MkDir creates the directory rel (slash-separated) under root.
func MkDir(t *testing.T, root, rel string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(rel)), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", rel, err)
	}
}

// ReadFile returns the content of rel (slash-separated) under root.
func ReadFile(t *testing.T, root, rel string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

// Exists reports whether rel (slash-separated) exists under root.
func Exists(t *testing.T, root, rel string) bool {
	t.Helper()

	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	return err == nil
}

// FakeHelper writes an executable shell script to a temp dir and returns
// its path. The script body runs with the three merge arguments in
// $1 $2 $3.
func FakeHelper(t *testing.T, body string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake merge helper scripts need a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "fake-merge")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("write fake helper: %v", err)
	}
	return path
}
