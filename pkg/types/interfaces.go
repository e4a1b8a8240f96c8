package types

import "io/fs"

// FS abstracts the filesystem operations the merge walk needs, so the
// same code runs against the real OS filesystem in production and an
// in-memory filesystem in tests.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)
}
