// pkg/session/session.go
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pomkit/pkg/config"
	"github.com/xkilldash9x/pomkit/pkg/element"
	"github.com/xkilldash9x/pomkit/pkg/engine"
	"github.com/xkilldash9x/pomkit/pkg/locator"
	"github.com/xkilldash9x/pomkit/pkg/observability"
)

// ArtifactStampLayout stamps HAR and page screenshot file names.
const ArtifactStampLayout = "060102150405"

// TraceArchiveName is written into the run directory at Dispose when
// screenshot tracing is on.
const TraceArchiveName = "Screenshots.zip"

// Outcome reports how the test owning a session ended.
type Outcome func() (status, message string)

// Session owns one browser, one browser context and its ordered tab list.
// Tab operations are serialized; exactly one tab is active at a time.
type Session struct {
	id       string
	cfg      *config.Config
	logger   *zap.Logger
	sink     *observability.Sink
	testName string
	runDir   string
	now      func() time.Time
	outcome  Outcome

	browser engine.Browser
	bctx    engine.BrowserContext

	mu       sync.Mutex
	tabs     []engine.Page
	active   int
	disposed bool
}

type Option func(*Session)

// WithSink injects the diagnostics sink. Without it the process default is
// configured from the tracing section and used.
func WithSink(s *observability.Sink) Option { return func(sess *Session) { sess.sink = s } }

func WithLogger(l *zap.Logger) Option { return func(sess *Session) { sess.logger = l } }

// WithTestName names the run directory and the start and finish banners.
func WithTestName(name string) Option { return func(sess *Session) { sess.testName = name } }

// WithOutcome supplies the status line written after the finish banner.
func WithOutcome(fn Outcome) Option { return func(sess *Session) { sess.outcome = fn } }

func WithClock(now func() time.Time) Option { return func(sess *Session) { sess.now = now } }

// New launches a browser through launcher, opens a context and a first tab.
func New(ctx context.Context, launcher engine.Launcher, cfg *config.Config, opts ...Option) (*Session, error) {
	if launcher == nil {
		return nil, &DriverError{Op: "new session", Cause: ErrNoLauncher}
	}
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	s := &Session{
		id:       uuid.New().String(),
		cfg:      cfg,
		testName: "session",
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = observability.GetLogger()
	}
	s.logger = s.logger.Named("session").With(zap.String("session_id", s.id), zap.String("engine", launcher.Name()))

	if cfg.Driver.Workers > 1 {
		s.logger.Warn("Parallel workers are not supported; running with one.", zap.Int("workers", cfg.Driver.Workers))
	}

	if err := s.prepareArtifacts(); err != nil {
		return nil, &DriverError{Op: "new session", Cause: err}
	}

	if err := s.start(ctx, launcher); err != nil {
		s.sink.Error(fmt.Sprintf("Failed creating the driver with message %q", err.Error()))
		return nil, &DriverError{Op: "new session", Cause: err}
	}

	s.sink.Info(fmt.Sprintf("===== %s has started =====", s.testName))
	s.sink.Info("User opened browser")
	s.logger.Info("Session started.", zap.String("browser_version", s.browser.Version()), zap.String("run_dir", s.runDir))
	return s, nil
}

func (s *Session) prepareArtifacts() error {
	if s.cfg.Tracing.AnyEnabled() {
		dir, err := s.cfg.Tracing.RunDir(s.testName, s.now())
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create run directory: %w", err)
		}
		s.runDir = dir
	}
	if s.sink == nil {
		if _, err := observability.ConfigureSink(observability.SinkOptions{
			Enabled: s.cfg.Tracing.Logging,
			Dir:     s.runDir,
			Now:     s.now,
		}); err != nil {
			return err
		}
		s.sink = observability.DefaultSink()
	}
	s.sink = s.sink.With(zap.String("session_id", s.id))
	return nil
}

func (s *Session) start(ctx context.Context, launcher engine.Launcher) (err error) {
	b, err := launcher.Launch(ctx, engine.LaunchOptions{
		Kind:     s.cfg.Browser.Kind,
		Headless: s.cfg.Browser.Headless,
		Args:     s.cfg.Browser.Args,
		Timeout:  s.cfg.Driver.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, b.Close(context.Background()))
		}
	}()

	bctx, err := b.NewContext(ctx, s.contextOptions())
	if err != nil {
		return fmt.Errorf("failed to create browser context: %w", err)
	}

	if s.cfg.Tracing.Screenshot {
		err = bctx.StartTracing(ctx, engine.TraceOptions{Screenshots: true, Snapshots: true})
		switch {
		case errors.Is(err, engine.ErrUnsupported):
			s.sink.Warning("Screenshot tracing is not supported by this engine")
			err = nil
		case err != nil:
			return fmt.Errorf("failed to start tracing: %w", err)
		}
	}

	page, err := bctx.NewPage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open first tab: %w", err)
	}

	s.browser = b
	s.bctx = bctx
	s.tabs = []engine.Page{page}
	s.active = 0
	return nil
}

func (s *Session) contextOptions() engine.ContextOptions {
	opts := engine.ContextOptions{
		Viewport: engine.Viewport{
			Width:  s.cfg.Browser.Viewport.Width,
			Height: s.cfg.Browser.Viewport.Height,
		},
		IgnoreHTTPSErrors: s.cfg.Browser.IgnoreTLSErrors,
		DefaultTimeout:    s.cfg.Driver.Timeout,
		DownloadDir:       s.artifactDir(),
	}
	if s.runDir != "" {
		if s.cfg.Tracing.HAR {
			opts.RecordHARPath = filepath.Join(s.runDir, s.now().Format(ArtifactStampLayout)+"_HARLog.har")
		}
		if s.cfg.Tracing.Video {
			opts.RecordVideoDir = s.runDir
		}
	}
	return opts
}

// artifactDir is where screenshots and downloads land.
func (s *Session) artifactDir() string {
	if s.runDir != "" {
		return s.runDir
	}
	return os.TempDir()
}

func (s *Session) ID() string { return s.id }

// RunDir is empty when every tracing toggle is off.
func (s *Session) RunDir() string { return s.runDir }

func (s *Session) Sink() *observability.Sink { return s.sink }

func (s *Session) Config() *config.Config { return s.cfg }

// Resolve maps spec to a lazy engine locator on the active tab. It never waits.
func (s *Session) Resolve(spec locator.Spec) (engine.Locator, error) {
	handle, _, err := s.resolve(spec)
	return handle, err
}

func (s *Session) resolve(spec locator.Spec) (engine.Locator, engine.Page, error) {
	sel, err := SelectorFor(spec)
	if err != nil {
		return nil, nil, &DriverError{Op: "resolve", Cause: err}
	}
	if err := spec.Lint(); err != nil {
		s.logger.Warn("Locator did not pass lint; passing it to the engine unchanged.", zap.Error(err))
	}
	page, err := s.ActivePage()
	if err != nil {
		return nil, nil, err
	}
	return page.Locator(sel), page, nil
}

// Find resolves spec and binds it to an element wired to this session's
// sink, timings and artifact directory. Pages a link opens join the tab list.
func (s *Session) Find(spec locator.Spec) (*element.Element, error) {
	handle, page, err := s.resolve(spec)
	if err != nil {
		return nil, err
	}
	return element.New(spec, handle, page,
		element.WithSink(s.sink),
		element.WithLogger(s.logger),
		element.WithTimings(element.TimingsFrom(s.cfg.Sync)),
		element.WithArtifactDir(s.artifactDir()),
		element.WithClock(s.now),
		element.WithNewPageHandler(s.adopt),
	), nil
}

// NavigateTo navigates the active tab and waits for DOMContentLoaded.
func (s *Session) NavigateTo(ctx context.Context, url string) error {
	page, err := s.ActivePage()
	if err != nil {
		return err
	}
	if err := page.Goto(ctx, url); err != nil {
		s.sink.Error(fmt.Sprintf("Failed navigating to %s", url), zap.Error(err))
		return &DriverError{Op: "navigate", Cause: &NavigationError{URL: url, Cause: err}}
	}
	s.sink.Info(fmt.Sprintf("User navigated to %s", url))
	return nil
}

func (s *Session) Title(ctx context.Context) (string, error) {
	page, err := s.ActivePage()
	if err != nil {
		return "", err
	}
	title, err := page.Title(ctx)
	if err != nil {
		s.sink.Error("Failed retrieving the title of the page", zap.Error(err))
		return "", &DriverError{Op: "title", Cause: err}
	}
	s.sink.Info(fmt.Sprintf("Page Title is %q", title))
	return title, nil
}

// HTML returns the serialized document of the active tab.
func (s *Session) HTML(ctx context.Context) (string, error) {
	page, err := s.ActivePage()
	if err != nil {
		return "", err
	}
	html, err := page.Content(ctx)
	if err != nil {
		s.sink.Error("Failed retrieving the HTML of the page", zap.Error(err))
		return "", &DriverError{Op: "html", Cause: err}
	}
	s.sink.Info("User has retrieved the page HTML", zap.Int("bytes", len(html)))
	return html, nil
}

// TakeScreenshot captures the active tab to <artifact dir>/screenshot_<yyMMddHHmmss>.png.
func (s *Session) TakeScreenshot(ctx context.Context) (string, error) {
	page, err := s.ActivePage()
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.artifactDir(), "screenshot_"+s.now().Format(ArtifactStampLayout)+".png")
	if err := page.Screenshot(ctx, path); err != nil {
		s.sink.Error("Failed taking page screenshot", zap.Error(err))
		return "", &DriverError{Op: "take screenshot", Cause: err}
	}
	s.sink.Info("User has taken a page screenshot")
	return path, nil
}

// Dispose stops tracing into the run directory, closes the browser and writes
// the finish banner. Disposing a disconnected session does nothing.
func (s *Session) Dispose(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed || s.browser == nil || !s.browser.IsConnected() {
		s.disposed = true
		return nil
	}
	s.disposed = true

	var errs error
	if s.cfg.Tracing.Screenshot && s.runDir != "" {
		err := s.bctx.StopTracing(ctx, filepath.Join(s.runDir, TraceArchiveName))
		if err != nil && !errors.Is(err, engine.ErrUnsupported) {
			errs = multierr.Append(errs, fmt.Errorf("failed to stop tracing: %w", err))
		}
	}
	if len(s.tabs) > 0 {
		errs = multierr.Append(errs, s.tabs[s.active].Close(ctx))
	}
	errs = multierr.Append(errs, s.bctx.Close(ctx))
	errs = multierr.Append(errs, s.browser.Close(ctx))
	s.tabs = nil
	s.active = 0

	s.sink.Info(fmt.Sprintf("===== %s has finished =====", s.testName))
	if s.outcome != nil {
		status, msg := s.outcome()
		s.sink.Info(strings.TrimSpace(fmt.Sprintf("Test %s %s", status, msg)))
	}
	if errs != nil {
		s.logger.Error("Session teardown reported errors.", zap.Error(errs))
		return &DriverError{Op: "dispose", Cause: errs}
	}
	s.logger.Info("Session disposed.")
	return nil
}
