package steps

import (
	"context"
	"fmt"

	"github.com/copyleftdev/xrmsteps/internal/xrm"
	"go.uber.org/zap"
)

// LoginSteps signs configured users in to an app.
type LoginSteps struct {
	StepDefiner
	users Users
}

func (l *LoginSteps) Register(sc ScenarioContext) {
	sc.Step(`^I am logged in to the '(.*)' app as '(.*)'$`, l.iAmLoggedInToTheAppAs)
}

func (l *LoginSteps) iAmLoggedInToTheAppAs(ctx context.Context, appName, alias string) error {
	s, err := l.scenario(ctx)
	if err != nil {
		return err
	}
	user, err := l.users.User(alias)
	if err != nil {
		return err
	}

	l.logger.Info("Logging in", zap.String("app", appName), zap.String("alias", alias))
	creds := xrm.Credentials{Username: user.Username, Password: user.Password, MFASecret: user.MFASecret}
	if err := s.App.Login(ctx, creds); err != nil {
		return fmt.Errorf("failed to log in as '%s': %w", alias, err)
	}
	return s.App.Navigation().OpenApp(ctx, appName)
}
