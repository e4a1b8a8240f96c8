// Package filesystem provides types.FS implementations: one backed by
// the real OS filesystem for production use, and one backed by afero so
// tests can run against an in-memory tree.
package filesystem
