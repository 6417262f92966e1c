// pkg/element/errors.go
package element

import (
	"fmt"
	"time"
)

// ActionError is returned by every failed element operation. It names the
// operation and the element's declared name and wraps the engine's cause.
type ActionError struct {
	Op      string
	Element string
	Cause   error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("element %q: %s failed: %v", e.Element, e.Op, e.Cause)
}

func (e *ActionError) Unwrap() error { return e.Cause }

// DisappearanceTimeoutError is the cause of an ActionError when an element is
// still visible once the disappearance deadline has passed.
type DisappearanceTimeoutError struct {
	Element string
	Bound   time.Duration
	Elapsed time.Duration
}

func (e *DisappearanceTimeoutError) Error() string {
	return fmt.Sprintf("%s didn't disappear after %d ms", e.Element, e.Bound.Milliseconds())
}
