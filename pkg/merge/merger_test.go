package merge

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usdtools/usdmerge/pkg/errors"
	"github.com/usdtools/usdmerge/pkg/mergetool"
	"github.com/usdtools/usdmerge/pkg/testutil"
	"github.com/usdtools/usdmerge/pkg/types"
	"github.com/usdtools/usdmerge/pkg/ui/output"
)

func newTestMerger(t *testing.T, src, dest string, helper *mergetool.Tool) (*Merger, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer
	m := New(Options{
		SourceRoot: src,
		DestRoot:   dest,
		Helper:     helper,
		Reporter:   output.NewPlainReporter(&out),
	})
	return m, &out
}

func plugin(files ...string) types.Plugin {
	return types.Plugin{Name: "test", About: "test plugin", Files: files}
}

func TestMergePluginCopiesNewFile(t *testing.T) {
	src := testutil.NewSourceRoot(t)
	dest := testutil.NewUSDRepo(t)
	testutil.WriteFile(t, src, "plugins/a.txt", "alpha\n")

	m, out := newTestMerger(t, src, dest, nil)
	res, err := m.MergePlugin(plugin("plugins/a.txt"))
	require.NoError(t, err)

	assert.Equal(t, "alpha\n", testutil.ReadFile(t, dest, "plugins/a.txt"))
	assert.Contains(t, out.String(), "Copying:    plugins/a.txt\n")
	assert.Equal(t, []string{"plugins/a.txt"}, res.Copied)
	assert.Empty(t, res.Merged)
	assert.Empty(t, res.Failed)
}

func TestMergePluginOverwritesWithoutHelper(t *testing.T) {
	src := testutil.NewSourceRoot(t)
	dest := testutil.NewUSDRepo(t)
	testutil.WriteFile(t, src, "cmake/defaults.cmake", "new content\n")
	testutil.WriteFile(t, dest, "cmake/defaults.cmake", "old content that is longer\n")

	m, out := newTestMerger(t, src, dest, nil)
	_, err := m.MergePlugin(plugin("cmake/defaults.cmake"))
	require.NoError(t, err)

	// Prior destination content is fully discarded
	assert.Equal(t, "new content\n", testutil.ReadFile(t, dest, "cmake/defaults.cmake"))
	assert.Contains(t, out.String(), "Copying:    cmake/defaults.cmake\n")
}

func TestMergePluginBulkCopiesNewDirectory(t *testing.T) {
	src := testutil.NewSourceRoot(t)
	dest := testutil.NewUSDRepo(t)
	testutil.WriteFile(t, src, "third_party/nuke/src/node.cpp", "cpp\n")
	testutil.WriteFile(t, src, "third_party/nuke/icons/node.png", "png\n")
	testutil.MkDir(t, src, "third_party/nuke/empty/nested")

	m, out := newTestMerger(t, src, dest, nil)
	res, err := m.MergePlugin(plugin("third_party/nuke"))
	require.NoError(t, err)

	assert.Equal(t, "cpp\n", testutil.ReadFile(t, dest, "third_party/nuke/src/node.cpp"))
	assert.Equal(t, "png\n", testutil.ReadFile(t, dest, "third_party/nuke/icons/node.png"))
	assert.True(t, testutil.Exists(t, dest, "third_party/nuke/empty/nested"),
		"empty nested directories are part of the bulk copy")

	// One copying action for the top-level path, nothing per-file
	assert.Equal(t, "Copying:    third_party/nuke\n", out.String())
	assert.Equal(t, []string{"third_party/nuke"}, res.Copied)
}

func TestMergePluginWalksExistingDirectory(t *testing.T) {
	src := testutil.NewSourceRoot(t)
	dest := testutil.NewUSDRepo(t)
	testutil.WriteFile(t, src, "cmake/modules/FindNuke.cmake", "find nuke\n")
	testutil.WriteFile(t, src, "cmake/defaults.cmake", "defaults\n")
	testutil.MkDir(t, dest, "cmake")

	m, out := newTestMerger(t, src, dest, nil)
	res, err := m.MergePlugin(plugin("cmake"))
	require.NoError(t, err)

	// Existing dir is walked: the new subdir is bulk-copied, the new
	// file is copied individually
	assert.Equal(t, "find nuke\n", testutil.ReadFile(t, dest, "cmake/modules/FindNuke.cmake"))
	assert.Equal(t, "defaults\n", testutil.ReadFile(t, dest, "cmake/defaults.cmake"))
	assert.Contains(t, out.String(), "Copying:    cmake/modules\n")
	assert.Contains(t, out.String(), "Copying:    cmake/defaults.cmake\n")
	assert.ElementsMatch(t, []string{"cmake/modules", "cmake/defaults.cmake"}, res.Copied)
}

func TestMergePluginMissingSourceAbortsBeforeLaterPaths(t *testing.T) {
	src := testutil.NewSourceRoot(t)
	dest := testutil.NewUSDRepo(t)
	testutil.WriteFile(t, src, "first.txt", "first\n")
	testutil.WriteFile(t, src, "later.txt", "later\n")

	m, _ := newTestMerger(t, src, dest, nil)
	res, err := m.MergePlugin(plugin("first.txt", "missing/thing", "later.txt"))

	require.Error(t, err)
	assert.Equal(t, errors.ErrSourceMissing, errors.GetCode(err))
	assert.Contains(t, err.Error(), "missing/thing")

	// No rollback of completed paths, no progress past the failure
	assert.Equal(t, "first\n", testutil.ReadFile(t, dest, "first.txt"))
	assert.False(t, testutil.Exists(t, dest, "later.txt"))
	assert.Equal(t, []string{"first.txt"}, res.Copied)
}

func TestMergePluginUnknownKindIsFatal(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink fixtures need a POSIX filesystem")
	}

	src := testutil.NewSourceRoot(t)
	dest := testutil.NewUSDRepo(t)
	testutil.WriteFile(t, src, "build_scripts/build.sh", "build\n")
	require.NoError(t, os.Symlink(
		"no-such-target",
		filepath.Join(src, "build_scripts", "dangling"),
	))
	testutil.MkDir(t, dest, "build_scripts")

	m, _ := newTestMerger(t, src, dest, nil)
	_, err := m.MergePlugin(plugin("build_scripts"))

	require.Error(t, err)
	assert.Equal(t, errors.ErrUnknownKind, errors.GetCode(err))
	assert.Contains(t, err.Error(), "build_scripts/dangling")
}

func TestMergePluginUsesHelperForConflicts(t *testing.T) {
	helperPath := testutil.FakeHelper(t, `cat "$3" >> "$1"`)
	helper := &mergetool.Tool{Name: "fake-merge", Path: helperPath}

	src := testutil.NewSourceRoot(t)
	dest := testutil.NewUSDRepo(t)
	testutil.WriteFile(t, src, "CMakeLists.txt", "theirs\n")
	testutil.WriteFile(t, dest, "CMakeLists.txt", "ours\n")

	m, out := newTestMerger(t, src, dest, helper)
	res, err := m.MergePlugin(plugin("CMakeLists.txt"))
	require.NoError(t, err)

	// The helper mutated the destination in place
	assert.Equal(t, "ours\ntheirs\n", testutil.ReadFile(t, dest, "CMakeLists.txt"))
	assert.Contains(t, out.String(), "Merging:    CMakeLists.txt\n")
	assert.Equal(t, []string{"CMakeLists.txt"}, res.Merged)
	assert.Empty(t, res.Failed)
}

func TestMergePluginHelperOnlyRunsForExistingFiles(t *testing.T) {
	helperPath := testutil.FakeHelper(t, "exit 1")
	helper := &mergetool.Tool{Name: "fake-merge", Path: helperPath}

	src := testutil.NewSourceRoot(t)
	dest := testutil.NewUSDRepo(t)
	testutil.WriteFile(t, src, "plugins/new.txt", "new\n")

	m, out := newTestMerger(t, src, dest, helper)
	res, err := m.MergePlugin(plugin("plugins/new.txt"))
	require.NoError(t, err)

	assert.Equal(t, "new\n", testutil.ReadFile(t, dest, "plugins/new.txt"))
	assert.Contains(t, out.String(), "Copying:    plugins/new.txt\n")
	assert.Empty(t, res.Failed)
}

func TestMergePluginHelperFailureIsRecoverable(t *testing.T) {
	// Fail on a.txt, merge everything else cleanly
	helperPath := testutil.FakeHelper(t, `case "$1" in *a.txt) exit 1;; esac; cat "$3" > "$1"`)
	helper := &mergetool.Tool{Name: "fake-merge", Path: helperPath}

	src := testutil.NewSourceRoot(t)
	dest := testutil.NewUSDRepo(t)
	testutil.WriteFile(t, src, "cmake/a.txt", "theirs a\n")
	testutil.WriteFile(t, src, "cmake/b.txt", "theirs b\n")
	testutil.WriteFile(t, dest, "cmake/a.txt", "ours a\n")
	testutil.WriteFile(t, dest, "cmake/b.txt", "ours b\n")

	m, out := newTestMerger(t, src, dest, helper)
	res, err := m.MergePlugin(plugin("cmake"))

	// A failed per-file merge never fails the run
	require.NoError(t, err)
	assert.Equal(t, []string{"cmake/a.txt"}, res.Failed)
	assert.Equal(t, []string{"cmake/b.txt"}, res.Merged)
	assert.Contains(t, out.String(), "Failed merge: cmake/a.txt\n")

	// The failed file keeps whatever the helper left behind; the other
	// file merged through
	assert.Equal(t, "ours a\n", testutil.ReadFile(t, dest, "cmake/a.txt"))
	assert.Equal(t, "theirs b\n", testutil.ReadFile(t, dest, "cmake/b.txt"))
}

func TestMergePluginIdempotentWithoutHelper(t *testing.T) {
	src := testutil.NewSourceRoot(t)
	dest := testutil.NewUSDRepo(t)
	testutil.WriteFile(t, src, "third_party/nuke/node.cpp", "cpp\n")
	testutil.WriteFile(t, src, "CMakeLists.txt", "cmake\n")

	p := plugin("third_party/nuke", "CMakeLists.txt")

	m, _ := newTestMerger(t, src, dest, nil)
	_, err := m.MergePlugin(p)
	require.NoError(t, err)
	first := snapshotTree(t, dest)

	_, err = m.MergePlugin(p)
	require.NoError(t, err)
	second := snapshotTree(t, dest)

	assert.Equal(t, first, second)
}

// snapshotTree captures a destination tree as rel path -> content, with
// directories marked by a trailing slash.
func snapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()

	snap := make(map[string]string)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if info.IsDir() {
			snap[rel+"/"] = ""
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		snap[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return snap
}
