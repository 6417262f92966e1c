// pkg/session/errors.go
package session

import (
	"errors"
	"fmt"
)

// ErrNoTabs is the cause of tab operations on a session with no open tabs.
var ErrNoTabs = errors.New("no open tabs")

// ErrNoLauncher is returned by New when it is given a nil launcher.
var ErrNoLauncher = errors.New("no engine launcher")

// DriverError wraps every session, tab and navigation failure.
type DriverError struct {
	Op    string
	Cause error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("driver: %s failed: %v", e.Op, e.Cause)
}

func (e *DriverError) Unwrap() error { return e.Cause }

// TabIndexError reports a 1-based tab index outside [1, Count].
type TabIndexError struct {
	Index int
	Count int
}

func (e *TabIndexError) Error() string {
	return fmt.Sprintf("tab %d is out of range [1, %d]", e.Index, e.Count)
}

// NavigationError reports a failed navigation of the active tab.
type NavigationError struct {
	URL   string
	Cause error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("failed to navigate to %s: %v", e.URL, e.Cause)
}

func (e *NavigationError) Unwrap() error { return e.Cause }
