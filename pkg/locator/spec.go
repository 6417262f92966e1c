// pkg/locator/spec.go
package locator

import (
	"fmt"
	"strings"
)

// Strategy is the mechanism used to locate an element.
type Strategy int

const (
	Css Strategy = iota
	XPath
	ID
	Name
	Text
)

var strategyNames = map[Strategy]string{
	Css:   "css",
	XPath: "xpath",
	ID:    "id",
	Name:  "name",
	Text:  "text",
}

func (s Strategy) String() string {
	if n, ok := strategyNames[s]; ok {
		return n
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// Composable reports whether the strategy has a structural nesting rule.
func (s Strategy) Composable() bool {
	return s == Css || s == XPath
}

// ParseStrategy converts a case-insensitive strategy name into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "css":
		return Css, nil
	case "xpath":
		return XPath, nil
	case "id":
		return ID, nil
	case "name":
		return Name, nil
	case "text":
		return Text, nil
	}
	return 0, fmt.Errorf("unknown locator strategy %q (supported: css, xpath, id, name, text)", name)
}

// Spec describes how to find an element, plus the human-readable name used in diagnostics.
// A Spec is a value: derived specs are new values and never alias the one they came from.
type Spec struct {
	name     string
	strategy Strategy
	value    string
}

// New builds a Spec from its parts.
func New(name string, strategy Strategy, value string) Spec {
	return Spec{name: name, strategy: strategy, value: value}
}

func ByCss(name, selector string) Spec { return New(name, Css, selector) }
func ByXPath(name, expr string) Spec { return New(name, XPath, expr) }
func ByID(name, id string) Spec { return New(name, ID, id) }
func ByName(name, attr string) Spec { return New(name, Name, attr) }
func ByText(name, text string) Spec { return New(name, Text, text) }

func (s Spec) Name() string { return s.name }
func (s Spec) Strategy() Strategy { return s.strategy }
func (s Spec) Value() string { return s.value }

// IsZero reports whether the spec was never initialized.
func (s Spec) IsZero() bool {
	return s == Spec{}
}

// WithName returns a copy of the spec carrying a different display name.
func (s Spec) WithName(name string) Spec {
	s.name = name
	return s
}

// withValue returns a copy with a rewritten locator string and the same strategy.
func (s Spec) withValue(name, value string) Spec {
	return Spec{name: name, strategy: s.strategy, value: value}
}

func (s Spec) String() string {
	return fmt.Sprintf("%s(%s=%s)", s.name, s.strategy, s.value)
}
