// pkg/session/testing.go
package session

import (
	"context"
	"testing"

	"github.com/xkilldash9x/pomkit/pkg/config"
	"github.com/xkilldash9x/pomkit/pkg/engine"
)

// NewForTest starts a session named after t and disposes it in t.Cleanup,
// recording whether t passed. A nil launcher uses the configured engine.
func NewForTest(t testing.TB, launcher engine.Launcher, cfg *config.Config, opts ...Option) *Session {
	t.Helper()
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if launcher == nil {
		var err error
		launcher, err = NewLauncher(cfg, nil)
		if err != nil {
			t.Fatalf("failed to build launcher: %v", err)
		}
	}

	base := []Option{
		WithTestName(t.Name()),
		WithOutcome(func() (string, string) {
			if t.Failed() {
				return "Failed", ""
			}
			if t.Skipped() {
				return "Skipped", ""
			}
			return "Passed", ""
		}),
	}
	s, err := New(context.Background(), launcher, cfg, append(base, opts...)...)
	if err != nil {
		t.Fatalf("failed to start session: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Dispose(context.Background()); err != nil {
			t.Errorf("failed to dispose session: %v", err)
		}
	})
	return s
}
