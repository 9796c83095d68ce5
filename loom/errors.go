package loom

import (
	"errors"
	"fmt"
)

// HookError reports a hook identity violation: UseState called outside a
// component evaluation, a hook call count that varies between evaluations
// of the same fiber, or a state cell read back as the wrong type. These
// are author bugs, the engine fails the pass fast instead of silently
// handing back wrong state.
type HookError struct {
	Reason string
	Index  int // hook index at the point of violation, -1 when outside evaluation
}

func (e *HookError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("loom: hook identity violation at index %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("loom: hook identity violation: %s", e.Reason)
}

// IsHookError reports whether err is a hook identity violation.
// Uses errors.As to handle wrapped errors.
func IsHookError(err error) bool {
	var he *HookError
	return errors.As(err, &he)
}

// CommitError reports a backend failure during the commit phase. Commit
// is atomic by convention only: when one surfaces, the output tree may
// hold a partially applied pass. The engine keeps the previous current
// root in that case so it never diffs against a tree that does not match
// reality, and the caller should treat the error as fatal.
type CommitError struct {
	Op  string // backend operation that failed
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("loom: commit failed during %s: %v", e.Op, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// IsCommitError reports whether err is a mid-commit backend failure.
func IsCommitError(err error) bool {
	var ce *CommitError
	return errors.As(err, &ce)
}
