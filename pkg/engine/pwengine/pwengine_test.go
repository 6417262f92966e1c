// pkg/engine/pwengine/pwengine_test.go
package pwengine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/pomkit/pkg/engine"
)

func TestBrowserKind(t *testing.T) {
	tests := []struct {
		in      string
		kind    string
		channel string
	}{
		{"", "chromium", ""},
		{"Chromium", "chromium", ""},
		{"chrome", "chromium", "chrome"},
		{"msedge", "chromium", "msedge"},
		{"firefox", "firefox", ""},
		{" webkit ", "webkit", ""},
	}
	for _, tt := range tests {
		kind, channel, err := browserKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.kind, kind, tt.in)
		assert.Equal(t, tt.channel, channel, tt.in)
	}

	_, _, err := browserKind("netscape")
	assert.ErrorIs(t, err, engine.ErrUnsupported)
}

func TestSelectorString(t *testing.T) {
	assert.Equal(t, "css=.grid .rt-tbody", selectorString(engine.Selector{Kind: engine.CSS, Expr: ".grid .rt-tbody"}))
	assert.Equal(t, "xpath=//*[@name='q']", selectorString(engine.Selector{Kind: engine.XPath, Expr: "//*[@name='q']"}))
}

func TestWaitState(t *testing.T) {
	for state, want := range map[engine.WaitState]*playwright.WaitForSelectorState{
		engine.StateAttached: playwright.WaitForSelectorStateAttached,
		engine.StateDetached: playwright.WaitForSelectorStateDetached,
		engine.StateVisible:  playwright.WaitForSelectorStateVisible,
		engine.StateHidden:   playwright.WaitForSelectorStateHidden,
	} {
		got, err := waitState(state)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := waitState("stable")
	assert.ErrorIs(t, err, engine.ErrUnsupported)
}

func TestWrapErr(t *testing.T) {
	assert.NoError(t, wrapErr("click", nil))

	err := wrapErr("click", playwright.ErrTimeout)
	assert.ErrorIs(t, err, engine.ErrTimeout)
	assert.ErrorIs(t, err, playwright.ErrTimeout)

	other := errors.New("detached")
	err = wrapErr("click", other)
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, engine.ErrTimeout)
}

func TestMillis(t *testing.T) {
	assert.Equal(t, 5000.0, *millis(5*time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()
	got := *millis(engine.TimeoutFrom(ctx, time.Second))
	assert.Greater(t, got, 1000.0, "context deadline wins over the default")
}
