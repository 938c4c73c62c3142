package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/copyleftdev/xrmsteps/internal/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Manager owns the Chrome allocator and hands out one Session per scenario.
type Manager struct {
	allocatorCtx    context.Context
	allocatorCancel context.CancelFunc
	cfg             *config.BrowserConfig
	logger          *zap.Logger
	sem             *semaphore.Weighted
	activeCtxWg     sync.WaitGroup
}

func NewManager(cfg *config.BrowserConfig, logger *zap.Logger) *Manager {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("mute-audio", true),
		chromedp.IgnoreCertErrors,
	)

	if cfg.WindowWidth > 0 && cfg.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight))
	}
	if cfg.ExecutablePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecutablePath))
	}
	if cfg.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.UserDataDir))
	} else {
		opts = append(opts, chromedp.Flag("guest", true))
	}

	allocatorCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Manager{
		allocatorCtx:    allocatorCtx,
		allocatorCancel: cancel,
		cfg:             cfg,
		logger:          logger,
		sem:             semaphore.NewWeighted(int64(cfg.MaxSessions)),
	}
}

// NewSession starts a browser for one scenario. It blocks while
// browser.maxSessions sessions are open.
func (m *Manager) NewSession(ctx context.Context) (*Session, error) {
	if err := m.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("failed to acquire browser slot: %w", err)
	}
	m.activeCtxWg.Add(1)

	id := uuid.NewString()
	logger := m.logger.With(zap.String("session", id))
	browserCtx, browserCancel := chromedp.NewContext(
		m.allocatorCtx,
		chromedp.WithLogf(logger.Sugar().Debugf),
		chromedp.WithErrorf(logger.Sugar().Errorf),
	)

	var once sync.Once
	release := func() {
		once.Do(func() {
			browserCancel()
			m.sem.Release(1)
			m.activeCtxWg.Done()
		})
	}

	// The first Run launches the browser and opens the tab.
	if err := chromedp.Run(browserCtx); err != nil {
		release()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	logger.Debug("Browser session started")
	return &Session{
		id:      id,
		ctx:     browserCtx,
		release: release,
		cfg:     m.cfg,
		logger:  logger,
	}, nil
}

// Shutdown closes the allocator and waits for open sessions to be released.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info("Shutting down browser manager...")

	if m.allocatorCancel != nil {
		m.allocatorCancel()
	}

	shutdownComplete := make(chan struct{})
	go func() {
		m.activeCtxWg.Wait()
		close(shutdownComplete)
	}()

	select {
	case <-shutdownComplete:
		m.logger.Info("All browser sessions have finished.")
	case <-ctx.Done():
		m.logger.Warn("Shutdown timeout reached while waiting for browser sessions.")
		return ctx.Err()
	}

	return nil
}
