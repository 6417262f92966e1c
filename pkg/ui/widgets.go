package ui

import (
	"context"

	"github.com/xkilldash9x/pomkit/pkg/engine"
	"github.com/xkilldash9x/pomkit/pkg/locator"
)

type Button struct{ Control }

func NewButton(f Finder, spec locator.Spec) *Button { return &Button{newControl(f, spec)} }

// ClickToDownload clicks and waits for the download the click starts.
func (b *Button) ClickToDownload(ctx context.Context) (engine.Download, error) {
	el, err := b.Element()
	if err != nil {
		return engine.Download{}, err
	}
	return el.ClickToDownload(ctx)
}

type CheckBox struct{ Control }

func NewCheckBox(f Finder, spec locator.Spec) *CheckBox { return &CheckBox{newControl(f, spec)} }

func (c *CheckBox) Check(ctx context.Context) error {
	el, err := c.Element()
	if err != nil {
		return err
	}
	return el.Check(ctx)
}

func (c *CheckBox) Uncheck(ctx context.Context) error {
	el, err := c.Element()
	if err != nil {
		return err
	}
	return el.Uncheck(ctx)
}

func (c *CheckBox) CheckedStatus(ctx context.Context) (bool, error) {
	el, err := c.Element()
	if err != nil {
		return false, err
	}
	return el.CheckedStatus(ctx)
}

// Input is a text field. Obscured typing masks the value in diagnostics.
type Input struct{ Control }

func NewInput(f Finder, spec locator.Spec) *Input { return &Input{newControl(f, spec)} }

func (i *Input) Type(ctx context.Context, text string, obscured bool) error {
	el, err := i.Element()
	if err != nil {
		return err
	}
	return el.Type(ctx, text, obscured)
}

func (i *Input) Clear(ctx context.Context) error {
	el, err := i.Element()
	if err != nil {
		return err
	}
	return el.Clear(ctx)
}

// Value reads the value attribute. A missing attribute reads as "".
func (i *Input) Value(ctx context.Context) (string, error) {
	v, _, err := i.Attribute(ctx, "value")
	return v, err
}

// SearchInput is a text field whose contents are never secret.
type SearchInput struct{ Control }

func NewSearchInput(f Finder, spec locator.Spec) *SearchInput {
	return &SearchInput{newControl(f, spec)}
}

func (s *SearchInput) Type(ctx context.Context, text string) error {
	el, err := s.Element()
	if err != nil {
		return err
	}
	return el.Type(ctx, text, false)
}

// Search types text and submits it with Enter.
func (s *SearchInput) Search(ctx context.Context, text string) error {
	if err := s.Type(ctx, text); err != nil {
		return err
	}
	return s.PressEnter(ctx)
}

// Link opens its target in a new tab when clicked.
type Link struct{ Control }

func NewLink(f Finder, spec locator.Spec) *Link { return &Link{newControl(f, spec)} }

// Click waits for the page the link opens and returns it. The page joins the
// session's tab list without becoming active.
func (l *Link) Click(ctx context.Context) (engine.Page, error) {
	el, err := l.Element()
	if err != nil {
		return nil, err
	}
	return el.ClickOnLink(ctx)
}

type Tab struct{ Control }

func NewTab(f Finder, spec locator.Spec) *Tab { return &Tab{newControl(f, spec)} }

func (t *Tab) SelectedStatus(ctx context.Context) (bool, error) {
	el, err := t.Element()
	if err != nil {
		return false, err
	}
	return el.SelectedStatus(ctx)
}

type Alert struct{ Control }

func NewAlert(f Finder, spec locator.Spec) *Alert { return &Alert{newControl(f, spec)} }

type Chart struct{ Control }

func NewChart(f Finder, spec locator.Spec) *Chart { return &Chart{newControl(f, spec)} }

type Image struct{ Control }

func NewImage(f Finder, spec locator.Spec) *Image { return &Image{newControl(f, spec)} }

// Source reads the src attribute.
func (i *Image) Source(ctx context.Context) (string, error) {
	v, _, err := i.Attribute(ctx, "src")
	return v, err
}

// Custom is a widget with no dedicated facade.
type Custom struct{ Control }

func NewCustom(f Finder, spec locator.Spec) *Custom { return &Custom{newControl(f, spec)} }
