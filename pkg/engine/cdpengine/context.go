// pkg/engine/cdpengine/context.go
package cdpengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/xkilldash9x/pomkit/pkg/engine"
)

// CombineContext returns a context derived from tabCtx, so it keeps the CDP
// target values, that is also canceled when opCtx is done. The caller's
// deadline is copied so remaining time can be read back with engine.TimeoutFrom.
func CombineContext(tabCtx, opCtx context.Context) (context.Context, context.CancelFunc) {
	var (
		combined context.Context
		cancel   context.CancelFunc
	)
	if deadline, ok := opCtx.Deadline(); ok {
		combined, cancel = context.WithDeadline(tabCtx, deadline)
	} else {
		combined, cancel = context.WithCancel(tabCtx)
	}

	go func() {
		select {
		case <-opCtx.Done():
			cancel()
		case <-combined.Done():
		}
	}()
	return combined, cancel
}

// opContext bounds one operation by the caller's context and, when the caller
// set no deadline, by def.
func opContext(tabCtx, opCtx context.Context, def time.Duration) (context.Context, context.CancelFunc) {
	combined, cancel := CombineContext(tabCtx, opCtx)
	if _, ok := opCtx.Deadline(); ok || def <= 0 {
		return combined, cancel
	}
	bounded, boundedCancel := context.WithTimeout(combined, def)
	return bounded, func() {
		boundedCancel()
		cancel()
	}
}

// wrapErr tags deadline and polling timeouts with engine.ErrTimeout.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, chromedp.ErrPollingTimeout) {
		return fmt.Errorf("%s: %w: %w", op, engine.ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
