package xrm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a named element does not exist on the page.
var ErrNotFound = errors.New("not found")

// By locates elements with an XPath expression.
type By struct {
	XPath string
}

func XPath(expr string) By { return By{XPath: expr} }

func ID(id string) By { return By{XPath: "//*[@id=" + Literal(id) + "]"} }

func (b By) String() string { return "xpath: " + b.XPath }

// Within scopes a relative locator (starting with ".") under parent.
func (b By) Within(parent string) By {
	return By{XPath: parent + strings.TrimPrefix(b.XPath, ".")}
}

// Literal quotes s as an XPath string literal. Values containing both quote
// characters are built with concat().
func Literal(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
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

// Driver is the raw element API.
type Driver interface {
	FindElement(ctx context.Context, by By) (Element, error)
	FindElements(ctx context.Context, by By) ([]Element, error)
	HasElement(ctx context.Context, by By) (bool, error)
	ClickWhenAvailable(ctx context.Context, by By) error
	WaitUntilAvailable(ctx context.Context, by By) (Element, error)
	WaitForPageToLoad(ctx context.Context) error
	WaitForTransaction(ctx context.Context) error
}

type Element interface {
	Text(ctx context.Context) (string, error)
	Attribute(name string) string
	Click(ctx context.Context) error
	FindElement(ctx context.Context, by By) (Element, error)
	FindElements(ctx context.Context, by By) ([]Element, error)
}

// NotFoundf wraps ErrNotFound with a message.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
