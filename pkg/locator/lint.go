// pkg/locator/lint.go
package locator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/xpath"
)

// ErrEmptyLocator is returned by Lint for a spec without a locator string.
var ErrEmptyLocator = errors.New("empty locator")

// Lint checks that the locator string parses under its strategy. Engines accept
// extensions beyond standard CSS (e.g. Playwright pseudo-classes), so callers
// treat a lint failure as a warning rather than a hard error.
func (s Spec) Lint() error {
	if strings.TrimSpace(s.value) == "" {
		return fmt.Errorf("%q: %w", s.name, ErrEmptyLocator)
	}
	switch s.strategy {
	case Css:
		if _, err := cascadia.ParseGroup(s.value); err != nil {
			return fmt.Errorf("%q: invalid css selector %q: %w", s.name, s.value, err)
		}
	case XPath:
		if _, err := xpath.Compile(s.value); err != nil {
			return fmt.Errorf("%q: invalid xpath %q: %w", s.name, s.value, err)
		}
	}
	return nil
}
