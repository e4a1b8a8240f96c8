// Package mergetool detects and drives the external three-way merge
// helper (the RCS "merge" program by default).
package mergetool

import (
	"os"
	"os/exec"

	"github.com/usdtools/usdmerge/pkg/logging"
)

// Tool is a detected merge helper. A nil *Tool means no helper is in
// effect and conflicting files fall back to overwrite-by-copy.
type Tool struct {
	// Name is the configured executable name, e.g. "merge".
	Name string
	// Path is the resolved absolute path.
	Path string
}

// Detect looks the helper up on PATH once at startup. The second return
// value reports whether it was found.
func Detect(name string) (*Tool, bool) {
	log := logging.GetLogger("mergetool")

	path, err := exec.LookPath(name)
	if err != nil {
		log.Debug().Str("tool", name).Msg("Merge helper not found on PATH")
		return nil, false
	}

	log.Debug().Str("tool", name).Str("path", path).Msg("Merge helper detected")
	return &Tool{Name: name, Path: path}, true
}

// Merge runs the helper with the conventional three-argument form:
// ours, base, theirs. The destination file doubles as the base since no
// common ancestor is tracked, and the helper mutates it in place.
// A nonzero exit status comes back as the *exec.ExitError.
func (t *Tool) Merge(dest, src string) error {
	cmd := exec.Command(t.Path, dest, dest, src)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
