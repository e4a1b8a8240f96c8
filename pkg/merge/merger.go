// Package merge implements the plugin merge walk.
//
// For each relative path a plugin declares, the walk either copies the
// path wholesale (when the destination has no entry for it) or descends
// into it and reconciles file by file, handing conflicting files to the
// external merge helper when one is in effect.
package merge

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/usdtools/usdmerge/pkg/errors"
	"github.com/usdtools/usdmerge/pkg/filesystem"
	"github.com/usdtools/usdmerge/pkg/logging"
	"github.com/usdtools/usdmerge/pkg/mergetool"
	"github.com/usdtools/usdmerge/pkg/types"
	"github.com/usdtools/usdmerge/pkg/ui/output"
)

// Options configures a Merger. SourceRoot and DestRoot are required;
// DestRoot must already be validated via paths.ValidateDestination.
type Options struct {
	// FS is the filesystem to operate on. Defaults to the OS filesystem.
	FS types.FS
	// SourceRoot holds the bundled plugin payload trees.
	SourceRoot string
	// DestRoot is the validated USD repository checkout.
	DestRoot string
	// Helper reconciles conflicting files. Nil means every conflicting
	// file is overwritten by copy instead.
	Helper *mergetool.Tool
	// Reporter receives the per-path progress lines. Defaults to an
	// unstyled reporter on stdout.
	Reporter *output.Reporter
}

// Merger walks plugin trees into a destination repository. It holds no
// mutable state across runs; the destination filesystem is the only
// thing a run changes.
type Merger struct {
	fs       types.FS
	src      string
	dest     string
	helper   *mergetool.Tool
	reporter *output.Reporter
	log      zerolog.Logger
}

// New creates a Merger from opts.
func New(opts Options) *Merger {
	m := &Merger{
		fs:       opts.FS,
		src:      opts.SourceRoot,
		dest:     opts.DestRoot,
		helper:   opts.Helper,
		reporter: opts.Reporter,
		log:      logging.GetLogger("merge"),
	}
	if m.fs == nil {
		m.fs = filesystem.NewOS()
	}
	if m.reporter == nil {
		m.reporter = output.NewReporter(os.Stdout)
	}
	return m
}

// MergePlugin merges every path plugin declares, in declaration order.
// A declared path missing from the source root is fatal and stops the
// walk; paths merged before that point stay merged. The returned result
// is valid even on error and lists what was done up to the failure.
func (m *Merger) MergePlugin(plugin types.Plugin) (*types.MergeResult, error) {
	m.log.Info().Str("plugin", plugin.Name).Msg("Merging plugin")

	res := &types.MergeResult{}
	for _, rel := range plugin.Files {
		info, err := m.fs.Stat(m.sourcePath(rel))
		if err != nil {
			return res, errors.Newf(errors.ErrSourceMissing, "plugin file %s does not exist", rel).
				WithDetail("plugin", plugin.Name).
				WithDetail("path", rel)
		}

		switch {
		case info.IsDir():
			err = m.mergeDir(rel, res)
		case info.Mode().IsRegular():
			err = m.mergeFile(rel, res)
		default:
			err = errors.Newf(errors.ErrUnknownKind, "unknown file situation %s", rel).
				WithDetail("path", rel)
		}
		if err != nil {
			return res, err
		}
	}

	m.log.Info().Str("plugin", plugin.Name).
		Int("copied", len(res.Copied)).
		Int("merged", len(res.Merged)).
		Int("failed", len(res.Failed)).
		Msg("Plugin merged")
	return res, nil
}

// mergeDir merges a single directory into the equivalent path at the
// destination. A directory new to the destination is copied wholesale;
// an existing one is walked child by child.
func (m *Merger) mergeDir(rel string, res *types.MergeResult) error {
	srcDir := m.sourcePath(rel)
	destDir := m.destPath(rel)

	if _, err := m.fs.Stat(destDir); err != nil {
		if err := m.makeParents(destDir); err != nil {
			return err
		}
		m.reporter.Copying(rel)
		if err := m.copyTree(srcDir, destDir, rel); err != nil {
			return err
		}
		res.Copied = append(res.Copied, rel)
		return nil
	}

	entries, err := m.fs.ReadDir(srcDir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrSourceMissing, "cannot list source directory %s", rel)
	}

	for _, entry := range entries {
		childRel := path.Join(rel, entry.Name())
		info, err := m.fs.Stat(m.sourcePath(childRel))
		if err != nil {
			// Broken symlinks land here: Stat follows links.
			return errors.Newf(errors.ErrUnknownKind, "don't know what to do with %s", childRel).
				WithDetail("path", childRel)
		}

		switch {
		case info.Mode().IsRegular():
			err = m.mergeFile(childRel, res)
		case info.IsDir():
			err = m.mergeDir(childRel, res)
		default:
			err = errors.Newf(errors.ErrUnknownKind, "don't know what to do with %s", childRel).
				WithDetail("path", childRel)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// mergeFile merges a single file into the equivalent path at the
// destination. A helper failure is recoverable: it is reported,
// recorded in res.Failed and the walk continues.
func (m *Merger) mergeFile(rel string, res *types.MergeResult) error {
	srcFile := m.sourcePath(rel)
	destFile := m.destPath(rel)

	_, err := m.fs.Stat(destFile)
	destExists := err == nil

	if !destExists || m.helper == nil {
		if err := m.makeParents(destFile); err != nil {
			return err
		}
		if err := m.copyFile(srcFile, destFile, rel); err != nil {
			return err
		}
		m.reporter.Copying(rel)
		res.Copied = append(res.Copied, rel)
		return nil
	}

	m.reporter.Merging(rel)
	if err := m.helper.Merge(destFile, srcFile); err != nil {
		m.log.Warn().Str("path", rel).Err(err).Msg("Merge helper failed")
		m.reporter.FailedMerge(rel)
		res.Failed = append(res.Failed, rel)
		return nil
	}
	res.Merged = append(res.Merged, rel)
	return nil
}

// copyTree recursively copies srcDir to destDir, preserving structure
// including empty nested directories. No merge semantics apply here.
func (m *Merger) copyTree(srcDir, destDir, rel string) error {
	srcInfo, err := m.fs.Stat(srcDir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrSourceMissing, "cannot stat source directory %s", rel)
	}
	if err := m.fs.MkdirAll(destDir, dirMode(srcInfo)); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory %s", rel)
	}

	entries, err := m.fs.ReadDir(srcDir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrSourceMissing, "cannot list source directory %s", rel)
	}

	for _, entry := range entries {
		childRel := path.Join(rel, entry.Name())
		srcChild := filepath.Join(srcDir, entry.Name())
		destChild := filepath.Join(destDir, entry.Name())

		info, err := m.fs.Stat(srcChild)
		if err != nil {
			return errors.Newf(errors.ErrUnknownKind, "don't know what to do with %s", childRel).
				WithDetail("path", childRel)
		}

		switch {
		case info.IsDir():
			err = m.copyTree(srcChild, destChild, childRel)
		case info.Mode().IsRegular():
			err = m.copyFile(srcChild, destChild, childRel)
		default:
			err = errors.Newf(errors.ErrUnknownKind, "don't know what to do with %s", childRel).
				WithDetail("path", childRel)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// copyFile copies a single file, preserving the source's permission
// bits, overwriting any existing destination content.
func (m *Merger) copyFile(srcFile, destFile, rel string) error {
	content, err := m.fs.ReadFile(srcFile)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "cannot read source file %s", rel)
	}

	mode := fs.FileMode(0644)
	if info, err := m.fs.Stat(srcFile); err == nil {
		mode = info.Mode().Perm()
	}

	if err := m.fs.WriteFile(destFile, content, mode); err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "cannot write destination file %s", rel)
	}
	return nil
}

// makeParents creates all parent directories for a destination path.
func (m *Merger) makeParents(dest string) error {
	dir := filepath.Dir(dest)
	if dir == "." || dir == string(filepath.Separator) {
		return nil
	}
	if err := m.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory %s", dir)
	}
	return nil
}

func (m *Merger) sourcePath(rel string) string {
	return filepath.Join(m.src, filepath.FromSlash(rel))
}

func (m *Merger) destPath(rel string) string {
	return filepath.Join(m.dest, filepath.FromSlash(rel))
}

func dirMode(info fs.FileInfo) fs.FileMode {
	if perm := info.Mode().Perm(); perm != 0 {
		return perm
	}
	return 0755
}
