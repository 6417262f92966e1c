// pkg/element/element.go
package element

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pomkit/pkg/config"
	"github.com/xkilldash9x/pomkit/pkg/engine"
	"github.com/xkilldash9x/pomkit/pkg/locator"
	"github.com/xkilldash9x/pomkit/pkg/observability"
)

// Mask replaces obscured text in diagnostics.
const Mask = "****"

// ScreenshotStampLayout is the yyMMddHHmmss suffix of screenshot file names.
const ScreenshotStampLayout = "060102150405"

// Timings are the bounded waits used around reads.
type Timings struct {
	// ReadWait precedes visibility, enabled, selected and attribute reads.
	ReadWait time.Duration
	// QuickReadWait precedes text and count reads.
	QuickReadWait time.Duration
	// DisappearPoll bounds each inner wait of WaitUntilItDisappears.
	DisappearPoll time.Duration
	// DisappearDeadline bounds the whole WaitUntilItDisappears loop.
	DisappearDeadline time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		ReadWait:          5 * time.Second,
		QuickReadWait:     3 * time.Second,
		DisappearPoll:     5 * time.Second,
		DisappearDeadline: 30 * time.Second,
	}
}

// TimingsFrom converts the sync section of the configuration.
func TimingsFrom(cfg config.SyncConfig) Timings {
	return Timings{
		ReadWait:          cfg.ReadWait,
		QuickReadWait:     cfg.QuickReadWait,
		DisappearPoll:     cfg.DisappearPoll,
		DisappearDeadline: cfg.DisappearDeadline,
	}
}

// Element performs synchronized actions and reads on one resolved locator.
// The locator is lazy, so an Element can be created before its DOM node exists.
type Element struct {
	spec    locator.Spec
	handle  engine.Locator
	page    engine.Page
	sink    *observability.Sink
	logger  *zap.Logger
	timings Timings
	dir     string
	now     func() time.Time
	onPage  func(engine.Page)
}

type Option func(*Element)

// WithSink sets the diagnostics sink. Defaults to observability.DefaultSink().
func WithSink(s *observability.Sink) Option { return func(e *Element) { e.sink = s } }

func WithLogger(l *zap.Logger) Option { return func(e *Element) { e.logger = l } }

func WithTimings(t Timings) Option { return func(e *Element) { e.timings = t } }

// WithArtifactDir sets where element screenshots are written.
func WithArtifactDir(dir string) Option { return func(e *Element) { e.dir = dir } }

// WithNewPageHandler is called with every page spawned by ClickOnLink.
func WithNewPageHandler(fn func(engine.Page)) Option { return func(e *Element) { e.onPage = fn } }

// WithClock overrides time.Now for screenshot names.
func WithClock(now func() time.Time) Option { return func(e *Element) { e.now = now } }

// New binds spec to a resolved handle on page.
func New(spec locator.Spec, handle engine.Locator, page engine.Page, opts ...Option) *Element {
	e := &Element{
		spec:    spec,
		handle:  handle,
		page:    page,
		timings: DefaultTimings(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sink == nil {
		e.sink = observability.DefaultSink()
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	e.logger = e.logger.Named("element").With(zap.String("element", spec.Name()))
	if e.dir == "" {
		e.dir = os.TempDir()
	}
	return e
}

func (e *Element) Spec() locator.Spec { return e.spec }

// Name is the declared name used in every diagnostic line.
func (e *Element) Name() string { return e.spec.Name() }

func (e *Element) Handle() engine.Locator { return e.handle }

func (e *Element) Selector() engine.Selector { return e.handle.Selector() }

func (e *Element) fail(op string, cause error) error {
	return &ActionError{Op: op, Element: e.spec.Name(), Cause: cause}
}

// syncOutcome is how a pre-read wait ended. Only a settled wait means the
// element is known to be attached; the read runs either way.
type syncOutcome int

const (
	settled syncOutcome = iota
	elapsed
	waitFailed
)

func (o syncOutcome) String() string {
	switch o {
	case settled:
		return "settled"
	case elapsed:
		return "elapsed"
	}
	return "failed"
}

// presync waits up to timeout for the element to attach and never fails the
// caller: an element that is legitimately absent is a valid observation.
func (e *Element) presync(ctx context.Context, timeout time.Duration) syncOutcome {
	err := e.handle.WaitFor(ctx, engine.StateAttached, timeout)
	outcome := settled
	switch {
	case err == nil:
	case errors.Is(err, engine.ErrTimeout):
		outcome = elapsed
	default:
		outcome = waitFailed
	}
	if outcome != settled {
		e.logger.Debug("Pre-read wait did not settle; reading current state.",
			zap.Stringer("outcome", outcome), zap.Duration("timeout", timeout), zap.Error(err))
	}
	return outcome
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// screenshotPath returns <dir>/<name>_<yyMMddHHmmss>.png.
func screenshotPath(dir, name string, now time.Time) string {
	safe := unsafeFileChars.ReplaceAllString(name, "_")
	if safe == "" || safe == "_" {
		safe = "element"
	}
	return filepath.Join(dir, safe+"_"+now.Format(ScreenshotStampLayout)+".png")
}

// ScreenshotPath exposes the naming rule for callers that capture pages.
func ScreenshotPath(dir, name string, now time.Time) string {
	return screenshotPath(dir, name, now)
}
