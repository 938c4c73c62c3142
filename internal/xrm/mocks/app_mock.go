package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/copyleftdev/xrmsteps/internal/fields"
	"github.com/copyleftdev/xrmsteps/internal/xrm"
)

// Call is one recorded invocation on the mock app.
type Call struct {
	Method string
	Args   []interface{}
}

// MockApp implements xrm.App (and all of its subsystems) for testing. Every
// call is recorded in order; errors and field values can be preset per method.
type MockApp struct {
	mu       sync.Mutex
	calls    []Call
	errors   map[string]error
	values   map[string]string
	booleans map[string]bool
}

var (
	_ xrm.App         = (*MockApp)(nil)
	_ xrm.Dialogs     = (*mockDialogs)(nil)
	_ xrm.Navigation  = (*mockNavigation)(nil)
	_ xrm.QuickCreate = (*mockQuickCreate)(nil)
	_ xrm.Entity      = (*mockEntity)(nil)
)

// NewMockApp creates a new mock app
func NewMockApp() *MockApp {
	return &MockApp{
		errors:   make(map[string]error),
		values:   make(map[string]string),
		booleans: make(map[string]bool),
	}
}

func (m *MockApp) record(method string, args ...interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{Method: method, Args: args})
	return m.errors[method]
}

// Calls returns the recorded calls
func (m *MockApp) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// Methods returns the names of the recorded calls in order
func (m *MockApp) Methods() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.calls))
	for i, c := range m.calls {
		out[i] = c.Method
	}
	return out
}

// SetError makes every later call to method fail with err
func (m *MockApp) SetError(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errors[method] = err
}

// SetFieldValue sets the value returned by the Get* methods for a field
func (m *MockApp) SetFieldValue(name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[name] = value
}

// SetBooleanValue sets the value returned by GetBoolean for a field
func (m *MockApp) SetBooleanValue(name string, value bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.booleans[name] = value
}

func (m *MockApp) Dialogs() xrm.Dialogs         { return &mockDialogs{m} }
func (m *MockApp) Navigation() xrm.Navigation   { return &mockNavigation{m} }
func (m *MockApp) QuickCreate() xrm.QuickCreate { return &mockQuickCreate{m} }
func (m *MockApp) Entity() xrm.Entity           { return &mockEntity{m} }

func (m *MockApp) Login(_ context.Context, creds xrm.Credentials) error {
	return m.record("Login", creds)
}

func (m *MockApp) ThinkTime(_ context.Context, d time.Duration) error {
	return m.record("ThinkTime", d)
}

// mockDialogs records calls with a "Dialogs." prefix.
type mockDialogs struct {
	m *MockApp
}

func (d *mockDialogs) ConfirmationDialog(_ context.Context, confirm bool) error {
	return d.m.record("Dialogs.ConfirmationDialog", confirm)
}

func (d *mockDialogs) Assign(_ context.Context, to xrm.AssignTo, name string) error {
	return d.m.record("Dialogs.Assign", to, name)
}

func (d *mockDialogs) CloseOpportunity(_ context.Context, won bool) error {
	return d.m.record("Dialogs.CloseOpportunity", won)
}

func (d *mockDialogs) CloseWarningDialog(_ context.Context) error {
	return d.m.record("Dialogs.CloseWarningDialog")
}

func (d *mockDialogs) PublishDialog(_ context.Context, confirm bool) error {
	return d.m.record("Dialogs.PublishDialog", confirm)
}

func (d *mockDialogs) SetStateDialog(_ context.Context, ok bool) error {
	return d.m.record("Dialogs.SetStateDialog", ok)
}

// mockNavigation records calls with a "Navigation." prefix.
type mockNavigation struct {
	m *MockApp
}

func (n *mockNavigation) OpenApp(_ context.Context, appName string) error {
	return n.m.record("Navigation.OpenApp", appName)
}

func (n *mockNavigation) OpenArea(_ context.Context, area string) error {
	return n.m.record("Navigation.OpenArea", area)
}

func (n *mockNavigation) OpenSubArea(_ context.Context, area, subArea string) error {
	return n.m.record("Navigation.OpenSubArea", area, subArea)
}

func (n *mockNavigation) OpenGroupSubArea(_ context.Context, group, subArea string) error {
	return n.m.record("Navigation.OpenGroupSubArea", group, subArea)
}

func (n *mockNavigation) OpenGlobalSearch(_ context.Context) error {
	return n.m.record("Navigation.OpenGlobalSearch")
}

func (n *mockNavigation) QuickCreate(_ context.Context, entity string) error {
	return n.m.record("Navigation.QuickCreate", entity)
}

func (n *mockNavigation) SignOut(_ context.Context) error {
	return n.m.record("Navigation.SignOut")
}

// mockQuickCreate records calls with a "QuickCreate." prefix so tests can
// tell them apart from form (Entity) calls.
type mockQuickCreate struct {
	m *MockApp
}

func (q *mockQuickCreate) SetValue(_ context.Context, name, value string) error {
	return q.m.record("QuickCreate.SetValue", name, value)
}

func (q *mockQuickCreate) SetOptionSet(_ context.Context, field fields.OptionSet) error {
	return q.m.record("QuickCreate.SetOptionSet", field)
}

func (q *mockQuickCreate) SetMultiOptionSet(_ context.Context, field fields.MultiValueOptionSet, removeExisting bool) error {
	return q.m.record("QuickCreate.SetMultiOptionSet", field, removeExisting)
}

func (q *mockQuickCreate) SetBoolean(_ context.Context, field fields.BooleanItem) error {
	return q.m.record("QuickCreate.SetBoolean", field)
}

func (q *mockQuickCreate) SetDateTime(_ context.Context, field fields.DateTimeControl) error {
	return q.m.record("QuickCreate.SetDateTime", field)
}

func (q *mockQuickCreate) SetLookup(_ context.Context, field fields.LookupItem) error {
	return q.m.record("QuickCreate.SetLookup", field)
}

func (q *mockQuickCreate) Save(_ context.Context) error {
	return q.m.record("QuickCreate.Save")
}

func (q *mockQuickCreate) Cancel(_ context.Context) error {
	return q.m.record("QuickCreate.Cancel")
}

func (q *mockQuickCreate) ClearValue(_ context.Context, name string) error {
	return q.m.record("QuickCreate.ClearValue", name)
}

func (q *mockQuickCreate) ClearOptionSet(_ context.Context, field fields.OptionSet) error {
	return q.m.record("QuickCreate.ClearOptionSet", field)
}

func (q *mockQuickCreate) ClearLookup(_ context.Context, field fields.LookupItem) error {
	return q.m.record("QuickCreate.ClearLookup", field)
}

func (q *mockQuickCreate) GetValue(_ context.Context, name string) (string, error) {
	err := q.m.record("QuickCreate.GetValue", name)
	return q.m.fieldValue(name), err
}

func (q *mockQuickCreate) GetOptionSet(_ context.Context, field fields.OptionSet) (string, error) {
	err := q.m.record("QuickCreate.GetOptionSet", field)
	return q.m.fieldValue(field.Name), err
}

func (q *mockQuickCreate) GetLookup(_ context.Context, field fields.LookupItem) (string, error) {
	err := q.m.record("QuickCreate.GetLookup", field)
	return q.m.fieldValue(field.Name), err
}

func (q *mockQuickCreate) GetBoolean(_ context.Context, field fields.BooleanItem) (bool, error) {
	err := q.m.record("QuickCreate.GetBoolean", field)

	q.m.mu.Lock()
	defer q.m.mu.Unlock()
	return q.m.booleans[field.Name], err
}

func (m *MockApp) fieldValue(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.values[name]
}

// mockEntity records form setter calls on the parent mock with an "Entity." prefix.
type mockEntity struct {
	m *MockApp
}

func (e *mockEntity) SetValue(_ context.Context, name, value string) error {
	return e.m.record("Entity.SetValue", name, value)
}

func (e *mockEntity) SetOptionSet(_ context.Context, field fields.OptionSet) error {
	return e.m.record("Entity.SetOptionSet", field)
}

func (e *mockEntity) SetMultiOptionSet(_ context.Context, field fields.MultiValueOptionSet, removeExisting bool) error {
	return e.m.record("Entity.SetMultiOptionSet", field, removeExisting)
}

func (e *mockEntity) SetBoolean(_ context.Context, field fields.BooleanItem) error {
	return e.m.record("Entity.SetBoolean", field)
}

func (e *mockEntity) SetDateTime(_ context.Context, field fields.DateTimeControl) error {
	return e.m.record("Entity.SetDateTime", field)
}

func (e *mockEntity) SetLookup(_ context.Context, field fields.LookupItem) error {
	return e.m.record("Entity.SetLookup", field)
}
