// internal/mocks/engine.go
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/pomkit/pkg/engine"
)

// -- Launcher Mock --

type MockLauncher struct {
	mock.Mock
}

func (m *MockLauncher) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockLauncher) Launch(ctx context.Context, opts engine.LaunchOptions) (engine.Browser, error) {
	args := m.Called(ctx, opts)
	if b, ok := args.Get(0).(engine.Browser); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

// -- Browser Mock --

type MockBrowser struct {
	mock.Mock
}

func (m *MockBrowser) NewContext(ctx context.Context, opts engine.ContextOptions) (engine.BrowserContext, error) {
	args := m.Called(ctx, opts)
	if bc, ok := args.Get(0).(engine.BrowserContext); ok {
		return bc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBrowser) IsConnected() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockBrowser) Version() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockBrowser) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// -- BrowserContext Mock --

type MockBrowserContext struct {
	mock.Mock
}

func (m *MockBrowserContext) NewPage(ctx context.Context) (engine.Page, error) {
	args := m.Called(ctx)
	if p, ok := args.Get(0).(engine.Page); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBrowserContext) StartTracing(ctx context.Context, opts engine.TraceOptions) error {
	args := m.Called(ctx, opts)
	return args.Error(0)
}

func (m *MockBrowserContext) StopTracing(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockBrowserContext) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// -- Page Mock --

type MockPage struct {
	mock.Mock
}

func (m *MockPage) Locator(sel engine.Selector) engine.Locator {
	args := m.Called(sel)
	if l, ok := args.Get(0).(engine.Locator); ok {
		return l
	}
	return nil
}

func (m *MockPage) Goto(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func (m *MockPage) URL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockPage) Title(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockPage) Content(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockPage) Screenshot(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockPage) BringToFront(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPage) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// ExpectPage records the call, then runs action the way a real engine would
// once its listener is armed.
func (m *MockPage) ExpectPage(ctx context.Context, action func() error) (engine.Page, error) {
	args := m.Called(ctx)
	if err := action(); err != nil {
		return nil, err
	}
	if p, ok := args.Get(0).(engine.Page); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// ExpectDownload records the call, then runs action.
func (m *MockPage) ExpectDownload(ctx context.Context, action func() error) (engine.Download, error) {
	args := m.Called(ctx)
	if err := action(); err != nil {
		return engine.Download{}, err
	}
	return args.Get(0).(engine.Download), args.Error(1)
}

// -- Locator Mock --

type MockLocator struct {
	mock.Mock
}

func (m *MockLocator) Selector() engine.Selector {
	args := m.Called()
	return args.Get(0).(engine.Selector)
}

func (m *MockLocator) Click(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockLocator) Check(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockLocator) Uncheck(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockLocator) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockLocator) Fill(ctx context.Context, text string) error {
	return m.Called(ctx, text).Error(0)
}

func (m *MockLocator) Press(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockLocator) WaitFor(ctx context.Context, state engine.WaitState, timeout time.Duration) error {
	return m.Called(ctx, state, timeout).Error(0)
}

func (m *MockLocator) IsVisible(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocator) IsEnabled(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocator) IsChecked(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocator) Attribute(ctx context.Context, name string) (string, bool, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockLocator) InnerText(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockLocator) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockLocator) Screenshot(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

// Compile-time interface checks.
var (
	_ engine.Launcher       = (*MockLauncher)(nil)
	_ engine.Browser        = (*MockBrowser)(nil)
	_ engine.BrowserContext = (*MockBrowserContext)(nil)
	_ engine.Page           = (*MockPage)(nil)
	_ engine.Locator        = (*MockLocator)(nil)
)
