// pkg/engine/engine.go
package engine

import (
	"context"
	"errors"
	"time"
)

// Sentinels that backends wrap so callers can classify failures without
// knowing which automation library produced them.
var (
	ErrTimeout     = errors.New("engine: timeout")
	ErrUnsupported = errors.New("engine: capability not supported by this backend")
	ErrNotFound    = errors.New("engine: no element matches the selector")
)

// SelectorKind is the selector syntax understood by the backend.
type SelectorKind int

const (
	CSS SelectorKind = iota
	XPath
)

func (k SelectorKind) String() string {
	if k == XPath {
		return "xpath"
	}
	return "css"
}

// Selector is a backend-neutral selector expression.
type Selector struct {
	Kind SelectorKind
	Expr string
}

func (s Selector) String() string { return s.Kind.String() + "=" + s.Expr }

// WaitState is the condition a Locator.WaitFor call blocks on.
type WaitState string

const (
	StateAttached WaitState = "attached"
	StateDetached WaitState = "detached"
	StateVisible  WaitState = "visible"
	StateHidden   WaitState = "hidden"
)

// Viewport is the page size in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

// LaunchOptions configure the browser process.
type LaunchOptions struct {
	// Kind is chromium, chrome, msedge, firefox or webkit. Backends reject kinds they cannot drive.
	Kind     string
	Headless bool
	Args     []string
	Timeout  time.Duration
}

// ContextOptions configure the isolated browser context a session runs in.
type ContextOptions struct {
	Viewport          Viewport
	IgnoreHTTPSErrors bool
	DefaultTimeout    time.Duration
	// RecordHARPath and RecordVideoDir are empty when recording is off.
	RecordHARPath  string
	RecordVideoDir string
	DownloadDir    string
}

// TraceOptions configure an engine trace recording.
type TraceOptions struct {
	Screenshots bool
	Snapshots   bool
}

// Download describes a completed download.
type Download struct {
	SuggestedFilename string
	URL               string
}

// Launcher starts a browser.
type Launcher interface {
	Name() string
	Launch(ctx context.Context, opts LaunchOptions) (Browser, error)
}

// Browser is a running browser process.
type Browser interface {
	NewContext(ctx context.Context, opts ContextOptions) (BrowserContext, error)
	IsConnected() bool
	Version() string
	// Close shuts the browser down and releases the driver behind it.
	Close(ctx context.Context) error
}

// BrowserContext is an isolated set of pages sharing cookies and storage.
type BrowserContext interface {
	NewPage(ctx context.Context) (Page, error)
	StartTracing(ctx context.Context, opts TraceOptions) error
	// StopTracing writes the trace archive to path.
	StopTracing(ctx context.Context, path string) error
	// Close flushes HAR and video recordings and closes every page.
	Close(ctx context.Context) error
}

// Page is one tab.
type Page interface {
	// Locator is lazy: nothing touches the document until an action or query runs.
	Locator(sel Selector) Locator
	// Goto navigates and blocks until DOMContentLoaded.
	Goto(ctx context.Context, url string) error
	URL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	Content(ctx context.Context) (string, error)
	Screenshot(ctx context.Context, path string) error
	BringToFront(ctx context.Context) error
	Close(ctx context.Context) error
	// ExpectPage starts listening for a new page before running action, then waits for it.
	ExpectPage(ctx context.Context, action func() error) (Page, error)
	// ExpectDownload starts listening for a download before running action, then waits
	// for it to complete.
	ExpectDownload(ctx context.Context, action func() error) (Download, error)
}

// Locator is a lazily evaluated handle that may match zero, one or many elements.
// Actions perform their own actionability wait; queries do not wait.
type Locator interface {
	Selector() Selector

	Click(ctx context.Context) error
	Check(ctx context.Context) error
	Uncheck(ctx context.Context) error
	Clear(ctx context.Context) error
	Fill(ctx context.Context, text string) error
	Press(ctx context.Context, key string) error

	WaitFor(ctx context.Context, state WaitState, timeout time.Duration) error

	IsVisible(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
	IsChecked(ctx context.Context) (bool, error)
	// Attribute reports the value and whether the attribute is present.
	Attribute(ctx context.Context, name string) (string, bool, error)
	InnerText(ctx context.Context) (string, error)
	Count(ctx context.Context) (int, error)
	Screenshot(ctx context.Context, path string) error
}

// TimeoutFrom converts the context deadline into a timeout, falling back to def.
func TimeoutFrom(ctx context.Context, def time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 {
			return remaining
		}
		return time.Millisecond
	}
	return def
}
