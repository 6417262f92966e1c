// pkg/session/resolve.go
package session

import (
	"fmt"
	"strings"

	"github.com/xkilldash9x/pomkit/pkg/engine"
	"github.com/xkilldash9x/pomkit/pkg/locator"
)

const (
	upperAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerAlphabet = "abcdefghijklmnopqrstuvwxyz"
)

// SelectorFor maps a spec onto the selector syntax the engines understand.
// It only builds a string; nothing is evaluated against a page.
func SelectorFor(spec locator.Spec) (engine.Selector, error) {
	v := spec.Value()
	if strings.TrimSpace(v) == "" {
		return engine.Selector{}, fmt.Errorf("%q: %w", spec.Name(), locator.ErrEmptyLocator)
	}
	switch spec.Strategy() {
	case locator.Css:
		return engine.Selector{Kind: engine.CSS, Expr: v}, nil
	case locator.XPath:
		return engine.Selector{Kind: engine.XPath, Expr: v}, nil
	case locator.ID:
		return engine.Selector{Kind: engine.CSS, Expr: "#" + v}, nil
	case locator.Name:
		return engine.Selector{Kind: engine.XPath, Expr: "//*[@name=" + xpathLiteral(v) + "]"}, nil
	case locator.Text:
		expr := fmt.Sprintf("//*[translate(text(), '%s', '%s') = %s]",
			upperAlphabet, lowerAlphabet, xpathLiteral(asciiLower(v)))
		return engine.Selector{Kind: engine.XPath, Expr: expr}, nil
	}
	return engine.Selector{}, fmt.Errorf("unknown locator strategy %v", spec.Strategy())
}

// asciiLower folds only A-Z, matching what translate() does to the page text.
func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

// xpathLiteral quotes s as an XPath 1.0 string literal. XPath has no escape
// sequences, so a value holding both quote kinds is built with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, 2*len(parts)-1)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
