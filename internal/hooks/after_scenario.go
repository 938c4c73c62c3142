// Package hooks holds the scenario lifecycle hooks.
package hooks

import (
	"context"
	"errors"
	"fmt"

	"github.com/copyleftdev/xrmsteps/internal/dom"
	"github.com/copyleftdev/xrmsteps/internal/steps"
	"github.com/cucumber/godog"
	"go.uber.org/zap"
)

// AfterScenarioHooks cleans up after each scenario.
type AfterScenarioHooks struct {
	logger *zap.Logger
}

func NewAfterScenarioHooks(logger *zap.Logger) *AfterScenarioHooks {
	return &AfterScenarioHooks{logger: logger.Named("hooks")}
}

func (h *AfterScenarioHooks) Register(sc steps.ScenarioContext) {
	sc.After(h.TestCleanup)
}

// TestCleanup deletes the scenario's test data and closes its browser. The
// browser is closed even when deleting data fails or panics, and both
// failures are returned.
func (h *AfterScenarioHooks) TestCleanup(ctx context.Context, sc *godog.Scenario, scenarioErr error) (_ context.Context, err error) {
	s, fromErr := steps.FromContext(ctx)
	if fromErr != nil {
		// The Before hook never opened a session.
		return ctx, nil
	}

	if scenarioErr != nil {
		h.logFailure(ctx, sc, s, scenarioErr)
	}

	if s.Session != nil {
		defer func() {
			if quitErr := s.Session.Quit(); quitErr != nil {
				err = errors.Join(err, quitErr)
			}
		}()
	}

	if s.Data != nil {
		if dataErr := s.Data.DeleteTestData(ctx); dataErr != nil {
			return ctx, fmt.Errorf("failed to delete test data: %w", dataErr)
		}
	}
	return ctx, nil
}

// logFailure records where the browser was when the scenario failed.
func (h *AfterScenarioHooks) logFailure(ctx context.Context, sc *godog.Scenario, s *steps.Scenario, scenarioErr error) {
	if s.Session == nil {
		return
	}
	fields := []zap.Field{zap.Error(scenarioErr)}
	if sc != nil {
		fields = append(fields, zap.String("scenario", sc.Name), zap.String("uri", sc.Uri))
	}

	if url, err := s.Session.Location(ctx); err == nil {
		fields = append(fields, zap.String("url", url))
	}
	if page, err := s.Session.PageHTML(ctx); err == nil {
		if simplified, err := dom.GetSimplifiedDOM(page); err == nil {
			fields = append(fields, zap.String("dom", simplified))
		}
	}
	h.logger.Error("Scenario failed", fields...)
}
