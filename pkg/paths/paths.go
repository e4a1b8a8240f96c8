// Package paths resolves the tool's source root and validates merge
// destinations.
package paths

import (
	"os"
	"path/filepath"

	"github.com/usdtools/usdmerge/pkg/errors"
	"github.com/usdtools/usdmerge/pkg/types"
)

// MarkerFile is the relative path whose presence identifies a directory
// as a USD repository checkout.
const MarkerFile = "pxr/pxr.h.in"

// EnvSourceRoot overrides the source root, mainly for tests and
// non-standard installs.
const EnvSourceRoot = "USDMERGE_SOURCE_ROOT"

// SourceRoot returns the directory holding the bundled plugin payload
// trees. Resolution order: explicit override (from config), the
// USDMERGE_SOURCE_ROOT environment variable, then the directory of the
// running executable.
func SourceRoot(override string) (string, error) {
	if override != "" {
		return filepath.Clean(override), nil
	}
	if env := os.Getenv(EnvSourceRoot); env != "" {
		return filepath.Clean(env), nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "cannot locate executable")
	}
	return filepath.Dir(exe), nil
}

// ValidateDestination checks that path exists, is a directory, and
// carries the marker file. It performs no filesystem mutation and
// returns the cleaned destination root on success.
func ValidateDestination(fsys types.FS, path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "destination path cannot be empty")
	}

	dest := filepath.Clean(path)

	info, err := fsys.Stat(dest)
	if err != nil {
		return "", errors.Newf(errors.ErrDestNotFound, "%s is not a valid directory", dest).
			WithDetail("path", dest)
	}
	if !info.IsDir() {
		return "", errors.Newf(errors.ErrDestNotDir, "%s is not a valid directory", dest).
			WithDetail("path", dest)
	}

	marker := filepath.Join(dest, filepath.FromSlash(MarkerFile))
	if _, err := fsys.Stat(marker); err != nil {
		return "", errors.Newf(errors.ErrMarkerMissing, "%s is not a valid USD repo", dest).
			WithDetail("path", dest).
			WithDetail("marker", MarkerFile)
	}

	return dest, nil
}
