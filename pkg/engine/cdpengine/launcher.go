// pkg/engine/cdpengine/launcher.go
package cdpengine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pomkit/pkg/engine"
)

const defaultActionTimeout = 30 * time.Second

// Launcher drives a local Chrome or Chromium over the DevTools protocol.
// It has no tracing, HAR or video recording; those calls report engine.ErrUnsupported.
type Launcher struct {
	logger *zap.Logger
}

func NewLauncher(logger *zap.Logger) *Launcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Launcher{logger: logger.Named("chromedp")}
}

func (l *Launcher) Name() string { return "chromedp" }

func (l *Launcher) Launch(ctx context.Context, opts engine.LaunchOptions) (engine.Browser, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Kind)) {
	case "", "chromium", "chrome":
	default:
		return nil, fmt.Errorf("%w: chromedp cannot drive %q", engine.ErrUnsupported, opts.Kind)
	}

	// The allocator outlives the launch context; Browser.Close cancels it.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocatorOptions(opts)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// The first Run allocates the browser and binds its lifetime to the
	// context it is given, so it must not carry a deadline.
	if err := runWithin(ctx, browserCtx, opts.Timeout); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch chrome: %w", err)
	}

	b := &Browser{
		allocCancel: allocCancel,
		ctx:         browserCtx,
		cancel:      browserCancel,
		logger:      l.logger,
	}
	b.version = b.readVersion(ctx)
	l.logger.Debug("Browser launched.", zap.String("version", b.version))
	return b, nil
}

// runWithin starts the browser on browserCtx and gives up after timeout or when ctx ends.
func runWithin(ctx, browserCtx context.Context, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	errCh := make(chan error, 1)
	go func() { errCh <- chromedp.Run(browserCtx) }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case err := <-errCh:
		return err
	case <-timer.C:
		return fmt.Errorf("%w: browser did not start within %s", engine.ErrTimeout, timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// allocatorOptions starts from chromedp's defaults and layers the configured flags on top.
func allocatorOptions(opts engine.LaunchOptions) []chromedp.ExecAllocatorOption {
	out := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	out = append(out,
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", opts.Headless),
		chromedp.Flag("no-first-run", true),
	)
	for _, arg := range opts.Args {
		name, value, ok := parseFlag(arg)
		if !ok {
			continue
		}
		out = append(out, chromedp.Flag(name, value))
	}
	return out
}

// parseFlag turns "--name=value" or "--name" into a chromedp flag pair.
func parseFlag(arg string) (string, any, bool) {
	arg = strings.TrimSpace(arg)
	if !strings.HasPrefix(arg, "-") {
		return "", nil, false
	}
	arg = strings.TrimLeft(arg, "-")
	if arg == "" {
		return "", nil, false
	}
	if name, value, found := strings.Cut(arg, "="); found {
		return name, value, true
	}
	return arg, true, true
}
