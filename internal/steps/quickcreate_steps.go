package steps

import (
	"context"

	"github.com/copyleftdev/xrmsteps/internal/fields"
	"github.com/cucumber/godog"
	"github.com/stretchr/testify/assert"
)

// QuickCreateSteps covers the quick create panel.
type QuickCreateSteps struct {
	StepDefiner
}

func (q *QuickCreateSteps) Register(sc ScenarioContext) {
	sc.Step(`^I enter '(.*)' into the '(.*)' (text|optionset|boolean|numeric|currency|datetime|lookup) field on the quick create$`, q.iEnterInTheQuickCreateField)
	sc.Step(`^I enter the following into the quick create$`, q.iEnterTheFollowingIntoTheQuickCreate)
	sc.Step(`^I cancel the quick create$`, q.iCancelTheQuickCreate)
	sc.Step(`^I clear the '(.*)' (?:currency|numeric|text|datetime|boolean) field on the quick create$`, q.iClearTheQuickCreateField)
	sc.Step(`^I clear the '(.*)' optionset field on the quick create$`, q.iClearTheQuickCreateOptionSetField)
	sc.Step(`^I clear the '(.*)' lookup field on the quick create$`, q.iClearTheQuickCreateLookupField)
	sc.Step(`^I save the quick create$`, q.iSaveTheQuickCreate)
	sc.Step(`^I can see a value of '(.*)' in the '(.*)' (?:currency|numeric|text) field on the quick create$`, q.iCanSeeAValueInTheQuickCreateField)
	sc.Step(`^I can see a value of '(.*)' in the '(.*)' optionset field on the quick create$`, q.iCanSeeAValueInTheQuickCreateOptionSetField)
	sc.Step(`^I can see a value of '(.*)' in the '(.*)' lookup field on the quick create$`, q.iCanSeeAValueInTheQuickCreateLookupField)
	sc.Step(`^I can see a value of '(true|false)' in the '(.*)' boolean field on the quick create$`, q.iCanSeeAValueInTheQuickCreateBooleanField)
}

func (q *QuickCreateSteps) iEnterInTheQuickCreateField(ctx context.Context, value, name, fieldType string) error {
	s, err := q.scenario(ctx)
	if err != nil {
		return err
	}
	return setField(ctx, s.App.QuickCreate(), name, value, fields.Type(fieldType))
}

func (q *QuickCreateSteps) iEnterTheFollowingIntoTheQuickCreate(ctx context.Context, table *godog.Table) error {
	s, err := q.scenario(ctx)
	if err != nil {
		return err
	}
	rows, err := tableRows(table)
	if err != nil {
		return err
	}
	return setRows(ctx, s.App.QuickCreate(), rows, nil)
}

func (q *QuickCreateSteps) iCancelTheQuickCreate(ctx context.Context) error {
	s, err := q.scenario(ctx)
	if err != nil {
		return err
	}
	return s.App.QuickCreate().Cancel(ctx)
}

func (q *QuickCreateSteps) iClearTheQuickCreateField(ctx context.Context, name string) error {
	s, err := q.scenario(ctx)
	if err != nil {
		return err
	}
	return s.App.QuickCreate().ClearValue(ctx, name)
}

func (q *QuickCreateSteps) iClearTheQuickCreateOptionSetField(ctx context.Context, name string) error {
	s, err := q.scenario(ctx)
	if err != nil {
		return err
	}
	return s.App.QuickCreate().ClearOptionSet(ctx, fields.OptionSet{Name: name})
}

func (q *QuickCreateSteps) iClearTheQuickCreateLookupField(ctx context.Context, name string) error {
	s, err := q.scenario(ctx)
	if err != nil {
		return err
	}
	return s.App.QuickCreate().ClearLookup(ctx, fields.LookupItem{Name: name})
}

func (q *QuickCreateSteps) iSaveTheQuickCreate(ctx context.Context) error {
	s, err := q.scenario(ctx)
	if err != nil {
		return err
	}
	return s.App.QuickCreate().Save(ctx)
}

func (q *QuickCreateSteps) iCanSeeAValueInTheQuickCreateField(ctx context.Context, expected, name string) error {
	s, err := q.scenario(ctx)
	if err != nil {
		return err
	}
	actual, err := s.App.QuickCreate().GetValue(ctx, name)
	if err != nil {
		return err
	}
	return assertExpectedAndActual(assert.Equal, expected, actual, "value of '%s'", name)
}

func (q *QuickCreateSteps) iCanSeeAValueInTheQuickCreateOptionSetField(ctx context.Context, expected, name string) error {
	s, err := q.scenario(ctx)
	if err != nil {
		return err
	}
	actual, err := s.App.QuickCreate().GetOptionSet(ctx, fields.OptionSet{Name: name})
	if err != nil {
		return err
	}
	return assertExpectedAndActual(assert.Equal, expected, actual, "value of '%s'", name)
}

func (q *QuickCreateSteps) iCanSeeAValueInTheQuickCreateLookupField(ctx context.Context, expected, name string) error {
	s, err := q.scenario(ctx)
	if err != nil {
		return err
	}
	actual, err := s.App.QuickCreate().GetLookup(ctx, fields.LookupItem{Name: name})
	if err != nil {
		return err
	}
	return assertExpectedAndActual(assert.Equal, expected, actual, "value of '%s'", name)
}

func (q *QuickCreateSteps) iCanSeeAValueInTheQuickCreateBooleanField(ctx context.Context, value, name string) error {
	s, err := q.scenario(ctx)
	if err != nil {
		return err
	}
	expected, err := fields.ParseBool(value)
	if err != nil {
		return err
	}
	actual, err := s.App.QuickCreate().GetBoolean(ctx, fields.BooleanItem{Name: name})
	if err != nil {
		return err
	}
	return assertExpectedAndActual(assert.Equal, expected, actual, "value of '%s'", name)
}
