// pkg/session/tabs.go
package session

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pomkit/pkg/engine"
)

// TabCount returns the number of tracked tabs.
func (s *Session) TabCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tabs)
}

// ActiveTab returns the 1-based index of the active tab, or 0 with no tabs.
func (s *Session) ActiveTab() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tabs) == 0 {
		return 0
	}
	return s.active + 1
}

// ActivePage returns the tab that resolutions and page operations target.
func (s *Session) ActivePage() (engine.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tabs) == 0 {
		return nil, &DriverError{Op: "active page", Cause: ErrNoTabs}
	}
	return s.tabs[s.active], nil
}

// adopt appends a page opened by the application. It does not become active.
func (s *Session) adopt(p engine.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabs = append(s.tabs, p)
	s.logger.Debug("Tracking page opened by the application.", zap.Int("tabs", len(s.tabs)))
}

// OpenNewTab opens a tab in the session's context and makes it active.
func (s *Session) OpenNewTab(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, err := s.bctx.NewPage(ctx)
	if err == nil {
		err = page.BringToFront(ctx)
		if err != nil {
			err = multierr.Append(err, page.Close(ctx))
		}
	}
	if err != nil {
		s.sink.Error("Failed opening a new tab", zap.Error(err))
		return &DriverError{Op: "open new tab", Cause: err}
	}
	s.tabs = append(s.tabs, page)
	s.active = len(s.tabs) - 1
	s.sink.Info("User has opened a new tab")
	return nil
}

// ChangeToTab activates the 1-based tab n.
func (s *Session) ChangeToTab(ctx context.Context, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n < 1 || n > len(s.tabs) {
		err := &TabIndexError{Index: n, Count: len(s.tabs)}
		s.sink.Error(fmt.Sprintf("Failed changing to tab %d", n), zap.Error(err))
		return &DriverError{Op: "change to tab", Cause: err}
	}
	if err := s.tabs[n-1].BringToFront(ctx); err != nil {
		s.sink.Error(fmt.Sprintf("Failed changing to tab %d", n), zap.Error(err))
		return &DriverError{Op: "change to tab", Cause: err}
	}
	s.active = n - 1
	s.sink.Info(fmt.Sprintf("User has changed to tab %d", n))
	return nil
}

// CloseCurrentTab closes the active tab and activates the one before it.
func (s *Session) CloseCurrentTab(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.tabs) == 0 {
		s.sink.Error("Failed closing the tab", zap.Error(ErrNoTabs))
		return &DriverError{Op: "close current tab", Cause: ErrNoTabs}
	}
	if err := s.tabs[s.active].Close(ctx); err != nil {
		s.sink.Error("Failed closing the tab", zap.Error(err))
		return &DriverError{Op: "close current tab", Cause: err}
	}

	s.tabs = append(s.tabs[:s.active], s.tabs[s.active+1:]...)
	if s.active > 0 {
		s.active--
	}
	if len(s.tabs) > 0 {
		if err := s.tabs[s.active].BringToFront(ctx); err != nil {
			s.logger.Debug("Could not raise the next tab.", zap.Error(err))
		}
	}
	s.sink.Info("User has closed the current tab")
	return nil
}

// CloseAllTabs closes every tracked tab. With no tabs it only logs.
func (s *Session) CloseAllTabs(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.tabs) == 0 {
		s.sink.Info("No tabs to close")
		return nil
	}

	var errs error
	for _, p := range s.tabs {
		errs = multierr.Append(errs, p.Close(ctx))
	}
	s.tabs = nil
	s.active = 0
	if errs != nil {
		s.sink.Error("Failed closing the tabs", zap.Error(errs))
		return &DriverError{Op: "close all tabs", Cause: errs}
	}
	s.sink.Info("User has closed all tabs")
	return nil
}
