package navigate

import "fmt"

// ConfigError reports invalid search options. Raised eagerly at call time so
// caller typos never degrade into a silently different search.
type ConfigError struct {
	Err error
}

func (e ConfigError) Error() string { return fmt.Sprintf("invalid search options: %v", e.Err) }
func (e ConfigError) Unwrap() error { return e.Err }

// NoLastRefileError reports a refile-again with no recorded refile target.
type NoLastRefileError struct{}

func (NoLastRefileError) Error() string { return "no previous refile target" }

// DocumentStateError reports an outline operation that failed because the
// document state no longer matches the position (typically concurrent
// external edits). The dispatcher does not retry.
type DocumentStateError struct {
	Op  string
	Err error
}

func (e DocumentStateError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e DocumentStateError) Unwrap() error { return e.Err }

// UnknownActionError reports a dispatch with an action the dispatcher does
// not know.
type UnknownActionError struct {
	Action Action
}

func (e UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %d", int(e.Action))
}

// MissingRefileSourceError reports a refile dispatch on a context that was
// not opened with a refile source.
type MissingRefileSourceError struct{}

func (MissingRefileSourceError) Error() string { return "refile search has no source heading" }

// TimeoutError reports a synchronous search that outlived its deadline.
type TimeoutError struct {
	Label string
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("synchronous search %q timed out", e.Label)
}

// CancelledError reports a synchronous search whose picker session ended
// without selecting anything.
type CancelledError struct {
	Label string
}

func (e CancelledError) Error() string {
	return fmt.Sprintf("search %q cancelled", e.Label)
}
