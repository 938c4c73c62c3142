package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/copyleftdev/xrmsteps/internal/config"
	"github.com/copyleftdev/xrmsteps/internal/dom"
	"github.com/copyleftdev/xrmsteps/internal/xrm"
	"go.uber.org/zap"
)

var _ xrm.Driver = (*Session)(nil)

// Session is one browser tab driven by a single scenario. Methods are not
// safe for concurrent use; steps run sequentially.
type Session struct {
	id      string
	ctx     context.Context
	release func()
	cfg     *config.BrowserConfig
	logger  *zap.Logger

	quitOnce sync.Once
	quitErr  error
}

func (s *Session) ID() string { return s.id }

// Run executes actions in the session's tab. Each call is bounded by
// browser.actionTimeout and by ctx.
func (s *Session) Run(ctx context.Context, actions ...chromedp.Action) error {
	var runCtx context.Context
	var cancel context.CancelFunc
	if s.cfg.ActionTimeout > 0 {
		runCtx, cancel = context.WithTimeout(s.ctx, s.cfg.ActionTimeout)
	} else {
		runCtx, cancel = context.WithCancel(s.ctx)
	}
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("Navigating", zap.String("url", url))
	return s.Run(ctx, chromedp.Navigate(url))
}

// Evaluate runs script in the page, awaiting it when it returns a promise.
func (s *Session) Evaluate(ctx context.Context, script string, res interface{}) error {
	return s.Run(ctx, chromedp.Evaluate(script, res, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithAwaitPromise(true)
	}))
}

func (s *Session) Location(ctx context.Context) (string, error) {
	var url string
	err := s.Run(ctx, chromedp.Location(&url))
	return url, err
}

func (s *Session) PageHTML(ctx context.Context) (string, error) {
	var page string
	err := s.Run(ctx, dom.GetFullHTMLAction(&page))
	return page, err
}

func (s *Session) Title(ctx context.Context) (string, error) {
	var title string
	err := s.Run(ctx, chromedp.Title(&title))
	return title, err
}

// Quit closes the browser and frees the session slot. It is safe to call
// more than once.
func (s *Session) Quit() error {
	s.quitOnce.Do(func() {
		err := chromedp.Cancel(s.ctx)
		s.release()
		if err != nil && !errors.Is(err, context.Canceled) {
			s.quitErr = fmt.Errorf("failed to close browser: %w", err)
			return
		}
		s.logger.Debug("Browser session closed")
	})
	return s.quitErr
}

func (s *Session) FindElement(ctx context.Context, by xrm.By) (xrm.Element, error) {
	var nodes []*cdp.Node
	if err := s.Run(ctx, dom.NodesAction(by.XPath, &nodes)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, xrm.NotFoundf("no element matches %s within %s", by, s.cfg.ActionTimeout)
		}
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, xrm.NotFoundf("no element matches %s", by)
	}
	return &element{s: s, xpath: indexed(by.XPath, 0), node: nodes[0]}, nil
}

func (s *Session) FindElements(ctx context.Context, by xrm.By) ([]xrm.Element, error) {
	var nodes []*cdp.Node
	if err := s.Run(ctx, chromedp.Nodes(by.XPath, &nodes, chromedp.BySearch, chromedp.AtLeast(0))); err != nil {
		return nil, err
	}

	out := make([]xrm.Element, len(nodes))
	for i, n := range nodes {
		out[i] = &element{s: s, xpath: indexed(by.XPath, i), node: n}
	}
	return out, nil
}

func (s *Session) HasElement(ctx context.Context, by xrm.By) (bool, error) {
	var present bool
	err := s.Run(ctx, dom.IsElementPresentAction(by.XPath, &present))
	return present, err
}

func (s *Session) ClickWhenAvailable(ctx context.Context, by xrm.By) error {
	return s.Run(ctx, dom.ClickAction(by.XPath))
}

func (s *Session) WaitUntilAvailable(ctx context.Context, by xrm.By) (xrm.Element, error) {
	if err := s.Run(ctx, dom.WaitVisibleAction(by.XPath)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, xrm.NotFoundf("%s was not available within %s", by, s.cfg.ActionTimeout)
		}
		return nil, err
	}
	return s.FindElement(ctx, by)
}

func (s *Session) WaitForPageToLoad(ctx context.Context) error {
	return s.Run(ctx, dom.ReadyStateAction())
}

func (s *Session) WaitForTransaction(ctx context.Context) error {
	return s.Run(ctx, dom.AppIdleAction())
}

// indexed addresses the i-th match of an XPath expression.
func indexed(xpath string, i int) string {
	return fmt.Sprintf("(%s)[%d]", xpath, i+1)
}

type element struct {
	s     *Session
	xpath string
	node  *cdp.Node
}

func (e *element) Text(ctx context.Context) (string, error) {
	var text string
	err := e.s.Run(ctx, dom.TextAction(e.xpath, &text))
	return text, err
}

// Attribute reads from the node as it was when the element was found.
func (e *element) Attribute(name string) string {
	return e.node.AttributeValue(name)
}

func (e *element) Click(ctx context.Context) error {
	return e.s.Run(ctx, dom.ScrollIntoViewAction(e.xpath), dom.ClickAction(e.xpath))
}

func (e *element) FindElement(ctx context.Context, by xrm.By) (xrm.Element, error) {
	return e.s.FindElement(ctx, by.Within(e.xpath))
}

func (e *element) FindElements(ctx context.Context, by xrm.By) ([]xrm.Element, error) {
	return e.s.FindElements(ctx, by.Within(e.xpath))
}
