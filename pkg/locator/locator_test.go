// pkg/locator/locator_test.go
package locator

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	cases := map[string]Strategy{
		"css":   Css,
		"XPath": XPath,
		" id ":  ID,
		"Name":  Name,
		"TEXT":  Text,
	}
	for in, want := range cases {
		got, err := ParseStrategy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseStrategy("link-text")
	assert.Error(t, err)
}

func TestCompose_Css(t *testing.T) {
	table := ByCss("Users", ".grid")

	tests := []struct {
		name    string
		base    Spec
		regions []Region
		want    string
	}{
		{"header", table, []Region{Header()}, ".grid .rt-thead"},
		{"body", table, []Region{Body()}, ".grid .rt-tbody"},
		{"header column", table, []Region{Header(), Column(3)}, ".grid .rt-thead [role='columnheader']:nth-child(3)"},
		{"body row", table, []Region{Body(), Row(2)}, ".grid .rt-tbody [role='rowgroup']:nth-child(2)"},
		{"body cell", table, []Region{Body(), Cell(4, 1)}, ".grid .rt-tbody [role='rowgroup']:nth-child(4) [role='gridcell']:nth-child(1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Chain(tt.base, tt.regions...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Value())
			assert.Equal(t, Css, got.Strategy())
		})
	}
}

func TestCompose_XPath(t *testing.T) {
	table := ByXPath("Users", "//div[@id='grid']")

	tests := []struct {
		name    string
		regions []Region
		want    string
	}{
		{"header", []Region{Header()}, "//div[@id='grid']//*[contains(@class,'rt-thead')]"},
		{"body", []Region{Body()}, "//div[@id='grid']//*[contains(@class,'rt-tbody')]"},
		{"header column", []Region{Header(), Column(2)}, "(//div[@id='grid']//*[contains(@class,'rt-thead')]//*[@role='columnheader'])[2]"},
		{"body row", []Region{Body(), Row(5)}, "(//div[@id='grid']//*[contains(@class,'rt-tbody')]//*[@role='rowgroup'])[5]"},
		{"body cell", []Region{Body(), Cell(1, 3)}, "((//div[@id='grid']//*[contains(@class,'rt-tbody')]//*[@role='rowgroup'])[1]//*[@role='gridcell'])[3]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Chain(table, tt.regions...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Value())
			assert.NoError(t, got.Lint(), "derived xpath should still compile")
		})
	}
}

func TestCompose_IsDeterministicAndPure(t *testing.T) {
	base := ByCss("Orders", "#orders")
	snapshot := base

	first, err := Chain(base, Body(), Cell(2, 2))
	require.NoError(t, err)
	second, err := Chain(base, Body(), Cell(2, 2))
	require.NoError(t, err)

	assert.Equal(t, first.Value(), second.Value())
	// Sibling accessors on the same base must not see each other's rewrites.
	header, err := Compose(base, Header())
	require.NoError(t, err)
	assert.Equal(t, "#orders .rt-thead", header.Value())

	if diff := cmp.Diff(snapshot, base, cmp.AllowUnexported(Spec{})); diff != "" {
		t.Fatalf("base spec was mutated (-want +got):\n%s", diff)
	}
}

func TestCompose_UnsupportedStrategies(t *testing.T) {
	for _, base := range []Spec{
		ByID("Grid", "grid"),
		ByName("Grid", "grid"),
		ByText("Grid", "users"),
	} {
		for _, region := range []Region{Header(), Body(), Column(1), Row(1), Cell(1, 1)} {
			_, err := Compose(base, region)
			var unsupported *UnsupportedCompositionError
			require.True(t, errors.As(err, &unsupported), "%s/%s", base.Strategy(), region)
			assert.Equal(t, region, unsupported.Region)
		}
	}
}

func TestCompose_RejectsZeroIndices(t *testing.T) {
	base := ByCss("Grid", ".grid")
	for _, region := range []Region{Column(0), Row(-1), Cell(0, 1), Cell(1, 0)} {
		_, err := Compose(base, region)
		assert.ErrorIs(t, err, ErrInvalidIndex, region.String())
	}
}

func TestCompose_DerivedName(t *testing.T) {
	got, err := Chain(ByCss("Users", ".grid"), Body(), Row(2))
	require.NoError(t, err)
	assert.Equal(t, "Users > body > row 2", got.Name())
}

func TestComposer_CustomClasses(t *testing.T) {
	c := DefaultComposer
	c.HeaderClass = "ag-header"
	got, err := c.Compose(ByCss("Grid", ".ag"), Header())
	require.NoError(t, err)
	assert.Equal(t, ".ag .ag-header", got.Value())
	assert.Equal(t, "rt-thead", DefaultComposer.HeaderClass)
}

func TestLint(t *testing.T) {
	assert.NoError(t, ByCss("ok", "div.grid > [role='row']:nth-child(2)").Lint())
	assert.NoError(t, ByXPath("ok", "//*[@name='q']").Lint())
	assert.NoError(t, ByID("ok", "submit").Lint())

	assert.Error(t, ByCss("bad", "div[").Lint())
	assert.Error(t, ByXPath("bad", "//*[@name=").Lint())
	assert.ErrorIs(t, ByText("empty", "  ").Lint(), ErrEmptyLocator)
}
