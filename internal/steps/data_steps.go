package steps

import (
	"context"

	"go.uber.org/zap"
)

// DataSteps creates records from the data directory. They are deleted when
// the scenario ends.
type DataSteps struct {
	StepDefiner
}

func (d *DataSteps) Register(sc ScenarioContext) {
	sc.Step(`^I have created '(.*)'$`, d.iHaveCreated)
}

func (d *DataSteps) iHaveCreated(ctx context.Context, name string) error {
	s, err := d.scenario(ctx)
	if err != nil {
		return err
	}
	record, err := s.Data.Load(name)
	if err != nil {
		return err
	}
	ref, err := s.Data.Create(ctx, record)
	if err != nil {
		return err
	}
	d.logger.Debug("Created test data", zap.String("name", name), zap.String("id", ref.ID))
	return nil
}
