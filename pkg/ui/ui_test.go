package ui

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xkilldash9x/pomkit/internal/mocks"
	"github.com/xkilldash9x/pomkit/pkg/element"
	"github.com/xkilldash9x/pomkit/pkg/engine"
	"github.com/xkilldash9x/pomkit/pkg/locator"
	"github.com/xkilldash9x/pomkit/pkg/observability"
	"github.com/xkilldash9x/pomkit/pkg/session"
)

// fakeFinder resolves specs the way a session does, against one mock page.
type fakeFinder struct {
	page   *mocks.MockPage
	handle *mocks.MockLocator
	sink   *observability.Sink
	found  []locator.Spec
}

func newFakeFinder(t *testing.T) (*fakeFinder, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	sink, err := observability.NewSink(observability.SinkOptions{Enabled: true}, core)
	require.NoError(t, err)
	return &fakeFinder{page: new(mocks.MockPage), handle: new(mocks.MockLocator), sink: sink}, logs
}

func (f *fakeFinder) Find(spec locator.Spec) (*element.Element, error) {
	if _, err := session.SelectorFor(spec); err != nil {
		return nil, err
	}
	f.found = append(f.found, spec)
	timings := element.Timings{ReadWait: time.Millisecond, QuickReadWait: time.Millisecond,
		DisappearPoll: time.Millisecond, DisappearDeadline: 10 * time.Millisecond}
	return element.New(spec, f.handle, f.page, element.WithSink(f.sink), element.WithTimings(timings)), nil
}

func TestTable_BodyRowText(t *testing.T) {
	ctx := context.Background()
	f, logs := newFakeFinder(t)
	f.handle.On("WaitFor", ctx, engine.StateAttached, time.Millisecond).Return(nil).Once()
	f.handle.On("InnerText", ctx).Return("Alice  42", nil).Once()

	grid := NewTable(f, locator.ByCss("Users", ".grid"))
	text, err := grid.Body().Row(2).Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice  42", text)

	require.Len(t, f.found, 1)
	assert.Equal(t, ".grid .rt-tbody [role='rowgroup']:nth-child(2)", f.found[0].Value())
	assert.Equal(t, locator.Css, f.found[0].Strategy())
	assert.Equal(t, `Text of "Users > body > row 2" is "Alice  42"`, logs.All()[0].Message)
}

func TestTable_AccessorsDoNotAlias(t *testing.T) {
	f, _ := newFakeFinder(t)
	grid := NewTable(f, locator.ByXPath("Users", "//div[@id='users']"))

	header := grid.Header()
	body := grid.Body()
	first := body.Row(1)
	cell := body.Cell(3, 2)
	col := header.Column(4)

	assert.Equal(t, "//div[@id='users']", grid.Spec().Value())
	assert.Equal(t, "//div[@id='users']//*[contains(@class,'rt-thead')]", header.Spec().Value())
	assert.Equal(t, "//div[@id='users']//*[contains(@class,'rt-tbody')]", body.Spec().Value())
	assert.Equal(t, "(//div[@id='users']//*[contains(@class,'rt-tbody')]//*[@role='rowgroup'])[1]", first.Spec().Value())
	assert.Equal(t, "((//div[@id='users']//*[contains(@class,'rt-tbody')]//*[@role='rowgroup'])[3]//*[@role='gridcell'])[2]", cell.Spec().Value())
	assert.Equal(t, "(//div[@id='users']//*[contains(@class,'rt-thead')]//*[@role='columnheader'])[4]", col.Spec().Value())

	assert.Equal(t, grid.Body().Row(1).Spec(), first.Spec(), "deterministic")
}

func TestTable_UnsupportedCompositionIsDeferred(t *testing.T) {
	ctx := context.Background()
	f, _ := newFakeFinder(t)
	grid := NewTable(f, locator.ByID("Users", "users"))

	row := grid.Body().Row(2)
	var uce *locator.UnsupportedCompositionError
	require.ErrorAs(t, row.Err(), &uce)

	_, err := row.Text(ctx)
	assert.ErrorAs(t, err, &uce)
	assert.Empty(t, f.found, "nothing is resolved")

	_, err = grid.Header().Column(0).Count(ctx)
	assert.Error(t, err)
}

func TestTable_CustomComposer(t *testing.T) {
	f, _ := newFakeFinder(t)
	c := locator.DefaultComposer
	c.BodyClass = "tbody-x"
	grid := NewTableWithComposer(f, locator.ByCss("Orders", "#orders"), c)
	assert.Equal(t, "#orders .tbody-x [role='rowgroup']:nth-child(1)", grid.Body().Row(1).Spec().Value())
}

func TestWidgets_ForwardToElement(t *testing.T) {
	ctx := context.Background()

	t.Run("checkbox", func(t *testing.T) {
		f, logs := newFakeFinder(t)
		f.handle.On("Check", ctx).Return(nil).Once()
		f.handle.On("IsChecked", ctx).Return(true, nil).Once()

		cb := NewCheckBox(f, locator.ByName("Terms", "terms"))
		require.NoError(t, cb.Check(ctx))
		checked, err := cb.CheckedStatus(ctx)
		require.NoError(t, err)
		assert.True(t, checked)
		assert.Equal(t, 2, logs.Len())
	})

	t.Run("input masks obscured text", func(t *testing.T) {
		f, logs := newFakeFinder(t)
		f.handle.On("Clear", ctx).Return(nil).Once()
		f.handle.On("Fill", ctx, "s3cret").Return(nil).Once()
		f.handle.On("WaitFor", ctx, engine.StateAttached, time.Millisecond).Return(nil).Once()
		f.handle.On("Attribute", ctx, "value").Return("s3cret", true, nil).Once()

		in := NewInput(f, locator.ByID("Password", "pw"))
		require.NoError(t, in.Type(ctx, "s3cret", true))
		assert.Equal(t, `User typed "****" into "Password"`, logs.All()[0].Message)

		v, err := in.Value(ctx)
		require.NoError(t, err)
		assert.Equal(t, "s3cret", v)
	})

	t.Run("search input submits", func(t *testing.T) {
		f, logs := newFakeFinder(t)
		f.handle.On("Clear", ctx).Return(nil).Once()
		f.handle.On("Fill", ctx, "golang").Return(nil).Once()
		f.handle.On("Press", ctx, "Enter").Return(nil).Once()

		require.NoError(t, NewSearchInput(f, locator.ByCss("Search", "input[type=search]")).Search(ctx, "golang"))
		assert.Equal(t, `User typed "golang" into "Search"`, logs.All()[0].Message)
		assert.Equal(t, `User pressed Enter on "Search"`, logs.All()[1].Message)
	})

	t.Run("link returns the new page", func(t *testing.T) {
		f, _ := newFakeFinder(t)
		opened := new(mocks.MockPage)
		f.page.On("ExpectPage", ctx).Return(opened, nil).Once()
		f.handle.On("Click", ctx).Return(nil).Once()

		page, err := NewLink(f, locator.ByText("Help", "Help")).Click(ctx)
		require.NoError(t, err)
		assert.Same(t, opened, page)
	})

	t.Run("button download", func(t *testing.T) {
		f, _ := newFakeFinder(t)
		f.page.On("ExpectDownload", ctx).Return(engine.Download{SuggestedFilename: "a.pdf"}, nil).Once()
		f.handle.On("Click", ctx).Return(nil).Once()

		dl, err := NewButton(f, locator.ByCss("Export", "#export")).ClickToDownload(ctx)
		require.NoError(t, err)
		assert.Equal(t, "a.pdf", dl.SuggestedFilename)
	})

	t.Run("tab selected status", func(t *testing.T) {
		f, _ := newFakeFinder(t)
		f.handle.On("WaitFor", ctx, engine.StateAttached, time.Millisecond).Return(nil).Once()
		f.handle.On("Attribute", ctx, "class").Return("nav-tab is-Selected", true, nil).Once()
		f.handle.On("Attribute", ctx, "aria-selected").Return("", false, nil).Once()

		selected, err := NewTab(f, locator.ByCss("Settings", "#settings-tab")).SelectedStatus(ctx)
		require.NoError(t, err)
		assert.True(t, selected)
	})

	t.Run("alert waits until it disappears", func(t *testing.T) {
		f, _ := newFakeFinder(t)
		f.handle.On("WaitFor", ctx, engine.StateHidden, mock.Anything).Return(nil).Once()
		f.handle.On("IsVisible", ctx).Return(false, nil).Once()

		require.NoError(t, NewAlert(f, locator.ByCss("Toast", ".toast")).WaitUntilItDisappears(ctx))
	})

	t.Run("resolution errors surface", func(t *testing.T) {
		f, _ := newFakeFinder(t)
		_, err := NewCustom(f, locator.ByCss("Blank", "")).IsVisible(ctx)
		assert.ErrorIs(t, err, locator.ErrEmptyLocator)
	})
}

var _ Finder = (*session.Session)(nil)
