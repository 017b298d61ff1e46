package bot

import "fmt"

// BackendError wraps a failed generative call. The turn recovers: the user
// gets an apology and single-shot flows return to idle.
type BackendError struct {
	Flow string
	Err  error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend failed in %s: %v", e.Flow, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// CorruptStateError reports a pending state tag no handler recognizes. The
// router clears the tag and falls back to top-level routing.
type CorruptStateError struct {
	State string
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("unrecognized pending state %q", e.State)
}
