// Package suite assembles a godog test suite from configuration: one browser
// session per scenario, every step binding and the cleanup hooks.
package suite

import (
	"context"
	"fmt"
	"io"

	"github.com/copyleftdev/xrmsteps/internal/browser"
	"github.com/copyleftdev/xrmsteps/internal/config"
	"github.com/copyleftdev/xrmsteps/internal/hooks"
	"github.com/copyleftdev/xrmsteps/internal/steps"
	"github.com/copyleftdev/xrmsteps/internal/testdata"
	"github.com/copyleftdev/xrmsteps/internal/uci"
	"github.com/cucumber/godog"
	"go.uber.org/zap"
)

// Opener starts the browser-backed state for one scenario.
type Opener func(ctx context.Context) (*steps.Scenario, error)

type Runner struct {
	cfg     *config.Config
	logger  *zap.Logger
	manager *browser.Manager
	open    Opener
	output  io.Writer
}

type Option func(*Runner)

// WithOpener replaces the browser-backed scenario opener.
func WithOpener(o Opener) Option {
	return func(r *Runner) { r.open = o }
}

// WithOutput sets where the formatter writes. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.output = w }
}

func New(cfg *config.Config, logger *zap.Logger, opts ...Option) *Runner {
	r := &Runner{cfg: cfg, logger: logger.Named("suite")}
	for _, o := range opts {
		o(r)
	}
	if r.open == nil {
		r.manager = browser.NewManager(&cfg.Browser, logger)
		r.open = r.openBrowser
	}
	return r
}

// openBrowser gives a scenario its own session, app and test data driver.
func (r *Runner) openBrowser(ctx context.Context) (*steps.Scenario, error) {
	session, err := r.manager.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	return &steps.Scenario{
		App:     uci.New(session, r.cfg.App.URL, r.logger),
		Driver:  session,
		Data:    testdata.NewDriver(r.cfg.Data.Dir, session, r.logger),
		Session: session,
	}, nil
}

// TestSuite builds the godog suite. Callers may adjust Options before Run.
func (r *Runner) TestSuite() godog.TestSuite {
	sc := r.cfg.Suite
	return godog.TestSuite{
		Name:                 "xrmsteps",
		TestSuiteInitializer: r.initializeSuite,
		ScenarioInitializer:  r.initializeScenario,
		Options: &godog.Options{
			Paths:         sc.Paths,
			Tags:          sc.Tags,
			Format:        sc.Format,
			Concurrency:   sc.Concurrency,
			StopOnFailure: sc.StopOnFailure,
			Strict:        sc.Strict,
			Output:        r.output,
		},
	}
}

// Run executes the suite and returns godog's exit status.
func (r *Runner) Run() int {
	r.logger.Info("Running features",
		zap.Strings("paths", r.cfg.Suite.Paths),
		zap.String("tags", r.cfg.Suite.Tags),
		zap.Int("concurrency", r.cfg.Suite.Concurrency))

	suite := r.TestSuite()
	return suite.Run()
}

func (r *Runner) initializeSuite(tsc *godog.TestSuiteContext) {
	tsc.AfterSuite(func() {
		if r.manager == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.Browser.ShutdownTimeout)
		defer cancel()
		if err := r.manager.Shutdown(ctx); err != nil {
			r.logger.Warn("Browser manager did not shut down cleanly", zap.Error(err))
		}
	})
}

func (r *Runner) initializeScenario(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		r.logger.Debug("Starting scenario", zap.String("scenario", s.Name), zap.String("uri", s.Uri))
		scenario, err := r.open(ctx)
		if err != nil {
			return ctx, fmt.Errorf("failed to open browser for '%s': %w", s.Name, err)
		}
		return steps.WithScenario(ctx, scenario), nil
	})

	steps.Register(sc, r.cfg, r.logger)
	hooks.NewAfterScenarioHooks(r.logger).Register(sc)
}
