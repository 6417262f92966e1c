// Package ui holds typed page-object facades. Each facade wraps one locator and
// exposes only the operations that make sense for its kind of widget.
package ui

import (
	"context"

	"github.com/xkilldash9x/pomkit/pkg/element"
	"github.com/xkilldash9x/pomkit/pkg/locator"
)

// Finder resolves a spec into a synchronized element. *session.Session implements it.
type Finder interface {
	Find(spec locator.Spec) (*element.Element, error)
}

// Control is the operation set every facade shares. The spec is resolved on
// each call, against whichever tab is active at that moment.
type Control struct {
	finder Finder
	spec   locator.Spec
	// err is a deferred construction failure, such as composing a region on
	// an id locator. It is returned by every operation.
	err error
}

func newControl(f Finder, spec locator.Spec) Control {
	return Control{finder: f, spec: spec}
}

func (c Control) Spec() locator.Spec { return c.spec }

// Err reports a construction failure without running an operation.
func (c Control) Err() error { return c.err }

// Element resolves the control.
func (c Control) Element() (*element.Element, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.finder.Find(c.spec)
}

func (c Control) Click(ctx context.Context) error {
	el, err := c.Element()
	if err != nil {
		return err
	}
	return el.Click(ctx)
}

func (c Control) Visibility(ctx context.Context) (element.Visibility, error) {
	el, err := c.Element()
	if err != nil {
		return element.Absent, err
	}
	return el.Visibility(ctx)
}

func (c Control) IsVisible(ctx context.Context) (bool, error) {
	v, err := c.Visibility(ctx)
	return v.IsVisible(), err
}

func (c Control) EnabledStatus(ctx context.Context) (bool, error) {
	el, err := c.Element()
	if err != nil {
		return false, err
	}
	return el.EnabledStatus(ctx)
}

func (c Control) Text(ctx context.Context) (string, error) {
	el, err := c.Element()
	if err != nil {
		return "", err
	}
	return el.Text(ctx)
}

func (c Control) WaitUntilItDisappears(ctx context.Context) error {
	el, err := c.Element()
	if err != nil {
		return err
	}
	return el.WaitUntilItDisappears(ctx)
}

func (c Control) Count(ctx context.Context) (int, error) {
	el, err := c.Element()
	if err != nil {
		return 0, err
	}
	return el.Count(ctx)
}

func (c Control) Attribute(ctx context.Context, name string) (string, bool, error) {
	el, err := c.Element()
	if err != nil {
		return "", false, err
	}
	return el.Attribute(ctx, name)
}

func (c Control) PressEnter(ctx context.Context) error {
	el, err := c.Element()
	if err != nil {
		return err
	}
	return el.PressEnter(ctx)
}

func (c Control) TakeScreenshot(ctx context.Context) (string, error) {
	el, err := c.Element()
	if err != nil {
		return "", err
	}
	return el.TakeScreenshot(ctx)
}
