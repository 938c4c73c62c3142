package steps

import (
	"context"
	"errors"

	"github.com/copyleftdev/xrmsteps/internal/testdata"
	"github.com/copyleftdev/xrmsteps/internal/xrm"
)

// ErrNoScenario is returned by a step run outside a scenario opened by the
// Before hook.
var ErrNoScenario = errors.New("no browser session is attached to the scenario")

// TestData creates records for a scenario and deletes them afterwards.
type TestData interface {
	Load(name string) (testdata.Record, error)
	Create(ctx context.Context, r testdata.Record) (testdata.Reference, error)
	DeleteTestData(ctx context.Context) error
}

// Session is the browser a scenario owns.
type Session interface {
	Location(ctx context.Context) (string, error)
	PageHTML(ctx context.Context) (string, error)
	Quit() error
}

// Scenario is the per-scenario state every step works against.
type Scenario struct {
	App     xrm.App
	Driver  xrm.Driver
	Data    TestData
	Session Session
}

type scenarioKey struct{}

func WithScenario(ctx context.Context, s *Scenario) context.Context {
	return context.WithValue(ctx, scenarioKey{}, s)
}

func FromContext(ctx context.Context) (*Scenario, error) {
	s, ok := ctx.Value(scenarioKey{}).(*Scenario)
	if !ok || s == nil {
		return nil, ErrNoScenario
	}
	return s, nil
}
