// internal/mocks/engine_test.go
package mocks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/pomkit/pkg/engine"
)

func TestMockPage_ExpectPageRunsAction(t *testing.T) {
	ctx := context.Background()
	page := new(MockPage)
	opened := new(MockPage)
	page.On("ExpectPage", mock.Anything).Return(opened, nil).Once()

	ran := false
	got, err := page.ExpectPage(ctx, func() error { ran = true; return nil })
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Same(t, opened, got)
	page.AssertExpectations(t)
}

func TestMockPage_ActionFailureWins(t *testing.T) {
	ctx := context.Background()
	page := new(MockPage)
	page.On("ExpectDownload", mock.Anything).Return(engine.Download{SuggestedFilename: "x"}, nil).Once()

	boom := errors.New("click failed")
	dl, err := page.ExpectDownload(ctx, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, dl.SuggestedFilename)
}

func TestMocks_NilReturns(t *testing.T) {
	ctx := context.Background()

	launcher := new(MockLauncher)
	launcher.On("Launch", ctx, engine.LaunchOptions{}).Return(nil, engine.ErrUnsupported).Once()
	b, err := launcher.Launch(ctx, engine.LaunchOptions{})
	assert.Nil(t, b)
	assert.ErrorIs(t, err, engine.ErrUnsupported)

	page := new(MockPage)
	page.On("Locator", engine.Selector{Kind: engine.CSS, Expr: "#x"}).Return(nil).Once()
	assert.Nil(t, page.Locator(engine.Selector{Kind: engine.CSS, Expr: "#x"}))
}
