package types

// MergeResult reports the outcome of merging one or more plugins.
// Failed lists files the external helper could not merge; those are
// recoverable and do not abort the run.
type MergeResult struct {
	Copied []string
	Merged []string
	Failed []string
}

// HasFailures reports whether any per-file merge failed.
func (r *MergeResult) HasFailures() bool {
	return len(r.Failed) > 0
}

// Merge folds another result into this one, preserving order.
func (r *MergeResult) Merge(other *MergeResult) {
	if other == nil {
		return
	}
	r.Copied = append(r.Copied, other.Copied...)
	r.Merged = append(r.Merged, other.Merged...)
	r.Failed = append(r.Failed, other.Failed...)
}
