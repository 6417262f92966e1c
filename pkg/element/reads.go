// pkg/element/reads.go
package element

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pomkit/pkg/engine"
)

// Visibility is the observed presence of an element.
type Visibility int

const (
	// Absent means nothing matched once the pre-read wait ended.
	Absent Visibility = iota
	// Hidden means at least one match exists but is not rendered.
	Hidden
	Visible
)

func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case Visible:
		return "visible"
	}
	return "absent"
}

// IsVisible is shorthand for Visibility() == Visible.
func (v Visibility) IsVisible() bool { return v == Visible }

// Visibility reports whether the element is absent, hidden, or visible.
func (e *Element) Visibility(ctx context.Context) (Visibility, error) {
	e.presync(ctx, e.timings.ReadWait)
	v, err := e.observe(ctx)
	if err != nil {
		e.sink.Error(fmt.Sprintf("Failed to get visibility of %q", e.Name()), zap.Error(err))
		return Absent, e.fail("visibility", err)
	}
	e.sink.Info(fmt.Sprintf("Visibility of %q is %q", e.Name(), fmt.Sprint(v.IsVisible())),
		zap.Stringer("state", v))
	return v, nil
}

// IsVisible reports Visibility as a bool.
func (e *Element) IsVisible(ctx context.Context) (bool, error) {
	v, err := e.Visibility(ctx)
	return v.IsVisible(), err
}

func (e *Element) observe(ctx context.Context) (Visibility, error) {
	n, err := e.handle.Count(ctx)
	if err != nil {
		return Absent, err
	}
	if n == 0 {
		return Absent, nil
	}
	visible, err := e.handle.IsVisible(ctx)
	if err != nil {
		return Absent, err
	}
	if visible {
		return Visible, nil
	}
	return Hidden, nil
}

func (e *Element) EnabledStatus(ctx context.Context) (bool, error) {
	e.presync(ctx, e.timings.ReadWait)
	enabled, err := e.handle.IsEnabled(ctx)
	if err != nil {
		e.sink.Error(fmt.Sprintf("Failed to get enabled status of %q", e.Name()), zap.Error(err))
		return false, e.fail("enabled status", err)
	}
	e.sink.Info(fmt.Sprintf("Enabled status of %q is %t", e.Name(), enabled))
	return enabled, nil
}

// CheckedStatus reads the checked state without a pre-read wait.
func (e *Element) CheckedStatus(ctx context.Context) (bool, error) {
	checked, err := e.handle.IsChecked(ctx)
	if err != nil {
		e.sink.Error(fmt.Sprintf("Failed to get checked status of %q", e.Name()), zap.Error(err))
		return false, e.fail("checked status", err)
	}
	e.sink.Info(fmt.Sprintf("Checked status of %q is %q", e.Name(), fmt.Sprint(checked)))
	return checked, nil
}

// SelectedStatus is true when the class list contains "selected" or
// aria-selected is "true", both compared case-insensitively.
func (e *Element) SelectedStatus(ctx context.Context) (bool, error) {
	e.presync(ctx, e.timings.ReadWait)

	class, _, err := e.handle.Attribute(ctx, "class")
	if err == nil {
		var aria string
		aria, _, err = e.handle.Attribute(ctx, "aria-selected")
		if err == nil {
			selected := isSelected(class, aria)
			e.sink.Info(fmt.Sprintf("Selected status of %q is %q", e.Name(), fmt.Sprint(selected)))
			return selected, nil
		}
	}
	e.sink.Error(fmt.Sprintf("Failed to get selected status of %q", e.Name()), zap.Error(err))
	return false, e.fail("selected status", err)
}

func isSelected(class, ariaSelected string) bool {
	byClass := strings.Contains(strings.ToLower(class), "selected")
	byAria := strings.EqualFold(strings.TrimSpace(ariaSelected), "true")
	return byClass || byAria
}

// Attribute returns the attribute value and whether it is present.
func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	e.presync(ctx, e.timings.ReadWait)
	value, ok, err := e.handle.Attribute(ctx, name)
	if err != nil {
		e.sink.Error(fmt.Sprintf("Failed to get attribute %s of %q", name, e.Name()), zap.Error(err))
		return "", false, e.fail("attribute "+name, err)
	}
	e.sink.Info(fmt.Sprintf("Attribute %s of %q is %q", name, e.Name(), value), zap.Bool("present", ok))
	return value, ok, nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	e.presync(ctx, e.timings.QuickReadWait)
	text, err := e.handle.InnerText(ctx)
	if err != nil {
		e.sink.Error(fmt.Sprintf("Failed to get text of %q", e.Name()), zap.Error(err))
		return "", e.fail("text", err)
	}
	e.sink.Info(fmt.Sprintf("Text of %q is %q", e.Name(), text))
	return text, nil
}

// Count returns the number of matches. Zero is a valid result.
func (e *Element) Count(ctx context.Context) (int, error) {
	e.presync(ctx, e.timings.QuickReadWait)
	n, err := e.handle.Count(ctx)
	if err != nil {
		e.sink.Error(fmt.Sprintf("Failed to get count of %q", e.Name()), zap.Error(err))
		return 0, e.fail("count", err)
	}
	e.sink.Info(fmt.Sprintf("Number of %q is %q", e.Name(), fmt.Sprint(n)))
	return n, nil
}

// WaitUntilItDisappears polls until the element is no longer visible. Each
// round waits up to DisappearPoll for the hidden state, ignoring that wait's
// timeout, then checks visibility. Only the DisappearDeadline is an error.
func (e *Element) WaitUntilItDisappears(ctx context.Context) error {
	start := time.Now()
	bound := e.timings.DisappearDeadline

	for {
		remaining := bound - time.Since(start)
		if remaining <= 0 {
			cause := &DisappearanceTimeoutError{Element: e.Name(), Bound: bound, Elapsed: time.Since(start)}
			e.sink.Error(cause.Error())
			return e.fail("wait until it disappears", cause)
		}

		wait := e.timings.DisappearPoll
		if wait <= 0 || wait > remaining {
			wait = remaining
		}
		round := time.Now()
		if err := e.handle.WaitFor(ctx, engine.StateHidden, wait); err != nil && !errors.Is(err, engine.ErrTimeout) {
			e.logger.Debug("Disappearance wait failed; checking visibility.", zap.Error(err))
			// A wait that fails fast must still take a full poll interval.
			sleepCtx(ctx, wait-time.Since(round))
		}
		if err := ctx.Err(); err != nil {
			e.sink.Error(fmt.Sprintf("Failed to wait until %q disappears", e.Name()), zap.Error(err))
			return e.fail("wait until it disappears", err)
		}

		visible, err := e.handle.IsVisible(ctx)
		if err != nil {
			e.sink.Error(fmt.Sprintf("Failed to wait until %q disappears", e.Name()), zap.Error(err))
			return e.fail("wait until it disappears", err)
		}
		if !visible {
			e.sink.Info(fmt.Sprintf("%q disappeared", e.Name()), zap.Duration("elapsed", time.Since(start)))
			return nil
		}
	}
}

// sleepCtx blocks for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
