// pkg/session/factory.go
package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pomkit/pkg/config"
	"github.com/xkilldash9x/pomkit/pkg/engine"
	"github.com/xkilldash9x/pomkit/pkg/engine/cdpengine"
	"github.com/xkilldash9x/pomkit/pkg/engine/pwengine"
	"github.com/xkilldash9x/pomkit/pkg/observability"
)

// NewLauncher returns the engine backend named by cfg.Driver.Engine.
func NewLauncher(cfg *config.Config, logger *zap.Logger) (engine.Launcher, error) {
	if logger == nil {
		logger = observability.GetLogger()
	}
	switch cfg.Driver.Engine {
	case "", config.EnginePlaywright:
		return pwengine.NewLauncher(logger, cfg.Driver.InstallBrowsers), nil
	case config.EngineChromedp:
		return cdpengine.NewLauncher(logger), nil
	}
	return nil, fmt.Errorf("unknown driver engine %q: %w", cfg.Driver.Engine, engine.ErrUnsupported)
}

// Open builds the configured launcher and starts a session on it.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Session, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	launcher, err := NewLauncher(cfg, nil)
	if err != nil {
		return nil, &DriverError{Op: "new session", Cause: err}
	}
	return New(ctx, launcher, cfg, opts...)
}
