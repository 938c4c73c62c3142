// Package uci drives the Unified Interface through a chromedp browser
// session and implements xrm.App.
package uci

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/copyleftdev/xrmsteps/internal/auth"
	"github.com/copyleftdev/xrmsteps/internal/dom"
	"github.com/copyleftdev/xrmsteps/internal/xrm"
	"go.uber.org/zap"
)

// loginTimeout bounds the whole sign-in flow, including redirects.
const loginTimeout = 2 * time.Minute

// Session is the browser tab the app runs in.
type Session interface {
	xrm.Driver
	Run(ctx context.Context, actions ...chromedp.Action) error
	Navigate(ctx context.Context, url string) error
	Evaluate(ctx context.Context, script string, res interface{}) error
}

var _ xrm.App = (*App)(nil)

type App struct {
	s       Session
	baseURL string
	logger  *zap.Logger
}

// New returns an App for the organisation at baseURL.
func New(s Session, baseURL string, logger *zap.Logger) *App {
	return &App{
		s:       s,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.Named("uci"),
	}
}

func (a *App) Dialogs() xrm.Dialogs         { return &dialogs{a} }
func (a *App) Navigation() xrm.Navigation   { return &navigation{a} }
func (a *App) QuickCreate() xrm.QuickCreate { return &quickCreate{form{a: a, scope: quickCreateRoot}} }
func (a *App) Entity() xrm.Entity           { return &form{a: a} }

func (a *App) Login(ctx context.Context, creds xrm.Credentials) error {
	if a.baseURL == "" {
		return fmt.Errorf("app.url is not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	a.logger.Info("Signing in", zap.String("user", creds.Username))

	if err := a.s.Navigate(ctx, a.baseURL+"/main.aspx"); err != nil {
		return fmt.Errorf("failed to open %s: %w", a.baseURL, err)
	}
	if err := a.s.WaitForPageToLoad(ctx); err != nil {
		return err
	}

	if err := a.s.Run(ctx,
		dom.WaitVisibleAction(loginUsername),
		dom.TypeAction(loginUsername, creds.Username),
		dom.ClickAction(loginSubmit),
		dom.WaitVisibleAction(loginPassword),
		dom.TypeAction(loginPassword, creds.Password),
		dom.ClickAction(loginSubmit),
	); err != nil {
		return fmt.Errorf("failed to enter credentials for %s: %w", creds.Username, err)
	}

	if creds.MFASecret != "" {
		code, err := auth.GenerateTOTP(creds.MFASecret)
		if err != nil {
			return err
		}
		if err := a.s.Run(ctx,
			dom.WaitVisibleAction(loginOneTimeCode),
			dom.TypeAction(loginOneTimeCode, code+kb.Enter),
		); err != nil {
			return fmt.Errorf("failed to enter one-time code: %w", err)
		}
	}

	if err := a.waitForShell(ctx); err != nil {
		return err
	}
	a.logger.Debug("Signed in", zap.String("user", creds.Username))
	return nil
}

// waitForShell waits for the app shell, answering the "stay signed in?"
// prompt when it appears first.
func (a *App) waitForShell(ctx context.Context) error {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		ready, err := a.s.HasElement(ctx, xrm.XPath(appShellReady))
		if err != nil {
			return err
		}
		if ready {
			return a.s.WaitForTransaction(ctx)
		}

		prompt, err := a.s.HasElement(ctx, xrm.XPath(loginStaySignedInNo))
		if err != nil {
			return err
		}
		if prompt {
			if err := a.s.ClickWhenAvailable(ctx, xrm.XPath(loginStaySignedInNo)); err != nil {
				return fmt.Errorf("failed to answer the stay signed in prompt: %w", err)
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("app shell did not load: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (a *App) ThinkTime(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
