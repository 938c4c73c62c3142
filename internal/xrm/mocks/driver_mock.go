package mocks

import (
	"context"
	"sync"

	"github.com/copyleftdev/xrmsteps/internal/xrm"
)

// MockDriver implements xrm.Driver over a fixed set of elements keyed by
// their XPath.
type MockDriver struct {
	mu       sync.Mutex
	elements map[string][]*MockElement
	actions  []string
	errors   map[string]error
}

var _ xrm.Driver = (*MockDriver)(nil)

// NewMockDriver creates a new mock driver with no elements
func NewMockDriver() *MockDriver {
	return &MockDriver{
		elements: make(map[string][]*MockElement),
		errors:   make(map[string]error),
	}
}

// MockElement is a page element. Children are keyed by the relative XPath
// used to find them.
type MockElement struct {
	TextValue  string
	Attributes map[string]string
	Children   map[string][]*MockElement

	driver  *MockDriver
	xpath   string
	clicked bool
}

// AddElements registers elements returned for xpath
func (d *MockDriver) AddElements(xpath string, elements ...*MockElement) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range elements {
		e.adopt(d, xpath)
	}
	d.elements[xpath] = append(d.elements[xpath], elements...)
}

func (e *MockElement) adopt(d *MockDriver, xpath string) {
	e.driver = d
	e.xpath = xpath
	for rel, children := range e.Children {
		for _, c := range children {
			c.adopt(d, xpath+" >> "+rel)
		}
	}
}

// SetError makes the named driver action (e.g. "WaitForTransaction") fail
func (d *MockDriver) SetError(action string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.errors[action] = err
}

// Actions returns the recorded driver actions in order
func (d *MockDriver) Actions() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]string, len(d.actions))
	copy(out, d.actions)
	return out
}

func (d *MockDriver) record(action string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.actions = append(d.actions, action)
	return d.errors[action]
}

func (d *MockDriver) lookup(xpath string) []*MockElement {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.elements[xpath]
}

func (d *MockDriver) FindElement(_ context.Context, by xrm.By) (xrm.Element, error) {
	found := d.lookup(by.XPath)
	if len(found) == 0 {
		return nil, xrm.NotFoundf("no element matches %s", by)
	}
	return found[0], nil
}

func (d *MockDriver) FindElements(_ context.Context, by xrm.By) ([]xrm.Element, error) {
	return toElements(d.lookup(by.XPath)), nil
}

func (d *MockDriver) HasElement(_ context.Context, by xrm.By) (bool, error) {
	return len(d.lookup(by.XPath)) > 0, nil
}

func (d *MockDriver) ClickWhenAvailable(ctx context.Context, by xrm.By) error {
	el, err := d.FindElement(ctx, by)
	if err != nil {
		return err
	}
	return el.Click(ctx)
}

func (d *MockDriver) WaitUntilAvailable(ctx context.Context, by xrm.By) (xrm.Element, error) {
	if err := d.record("WaitUntilAvailable " + by.XPath); err != nil {
		return nil, err
	}
	return d.FindElement(ctx, by)
}

func (d *MockDriver) WaitForPageToLoad(_ context.Context) error {
	return d.record("WaitForPageToLoad")
}

func (d *MockDriver) WaitForTransaction(_ context.Context) error {
	return d.record("WaitForTransaction")
}

// Clicked reports whether the element was clicked
func (e *MockElement) Clicked() bool {
	e.driver.mu.Lock()
	defer e.driver.mu.Unlock()

	return e.clicked
}

func (e *MockElement) Text(_ context.Context) (string, error) {
	return e.TextValue, nil
}

func (e *MockElement) Attribute(name string) string {
	return e.Attributes[name]
}

func (e *MockElement) Click(_ context.Context) error {
	if err := e.driver.record("Click " + e.xpath); err != nil {
		return err
	}

	e.driver.mu.Lock()
	defer e.driver.mu.Unlock()
	e.clicked = true
	return nil
}

func (e *MockElement) FindElement(_ context.Context, by xrm.By) (xrm.Element, error) {
	found := e.Children[by.XPath]
	if len(found) == 0 {
		return nil, xrm.NotFoundf("no element matches %s under %s", by, e.xpath)
	}
	return found[0], nil
}

func (e *MockElement) FindElements(_ context.Context, by xrm.By) ([]xrm.Element, error) {
	return toElements(e.Children[by.XPath]), nil
}

func toElements(in []*MockElement) []xrm.Element {
	out := make([]xrm.Element, len(in))
	for i, e := range in {
		out[i] = e
	}
	return out
}
