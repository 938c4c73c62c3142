// Package steps binds Gherkin step phrases to the xrm automation API.
// Each group of bindings parses its phrase arguments into typed field values
// and hands them to the dialog, navigation, quick create or form subsystem of
// the scenario's app.
package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/copyleftdev/xrmsteps/internal/config"
	"github.com/copyleftdev/xrmsteps/internal/fields"
	"github.com/copyleftdev/xrmsteps/internal/templating"
	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
	"go.uber.org/zap"
)

// confirmationThinkTime is the pause after answering a confirmation dialog,
// which can trigger a save the next step depends on.
const confirmationThinkTime = 2 * time.Second

// ScenarioContext is the part of godog.ScenarioContext the bindings use.
type ScenarioContext interface {
	Before(h godog.BeforeScenarioHook)
	After(h godog.AfterScenarioHook)
	Step(expr interface{}, stepFunc interface{})
}

var _ ScenarioContext = (*godog.ScenarioContext)(nil)

// Users resolves a user alias to credentials.
type Users interface {
	User(alias string) (config.UserConfig, error)
}

// StepDefiner gives bindings access to the scenario they run in.
type StepDefiner struct {
	logger *zap.Logger
}

func (StepDefiner) scenario(ctx context.Context) (*Scenario, error) {
	return FromContext(ctx)
}

// Register adds every step binding to sc.
func Register(sc ScenarioContext, users Users, logger *zap.Logger) {
	base := StepDefiner{logger: logger.Named("steps")}

	(&DialogSteps{base}).Register(sc)
	(&NavigationSteps{base}).Register(sc)
	(&QuickCreateSteps{base}).Register(sc)
	(&LoginSteps{StepDefiner: base, users: users}).Register(sc)
	(&DataSteps{base}).Register(sc)
}

// tableRows reads a Field/Value/Type data table.
func tableRows(table *godog.Table) ([]fields.Row, error) {
	if table == nil {
		return nil, errors.New("a data table with Field, Value and Type columns is required")
	}
	if len(table.Rows) == 0 {
		return nil, errors.New("data table has no header row")
	}

	header := rowValues(table.Rows[0])
	rows := make([][]string, 0, len(table.Rows)-1)
	for _, r := range table.Rows[1:] {
		rows = append(rows, rowValues(r))
	}
	return fields.RowsFromTable(header, rows)
}

func rowValues(r *messages.PickleTableRow) []string {
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.Value
	}
	return out
}

// setField renders templates in value and sets it through s.
func setField(ctx context.Context, s fields.Setter, name, value string, fieldType fields.Type) error {
	rendered, err := templating.Replace(value)
	if err != nil {
		return err
	}
	return fields.Set(ctx, s, name, rendered, fieldType)
}

func setRows(ctx context.Context, s fields.Setter, rows []fields.Row, after func(context.Context) error) error {
	for _, r := range rows {
		if err := setField(ctx, s, r.Field, r.Value, r.Type); err != nil {
			return err
		}
		if after != nil {
			if err := after(ctx); err != nil {
				return fmt.Errorf("field '%s': %w", r.Field, err)
			}
		}
	}
	return nil
}
