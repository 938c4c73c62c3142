package main

import (
	"context"
	"fmt"
	"time"

	"github.com/copyleftdev/xrmsteps/internal/browser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newCheckCmd verifies Chrome can be launched and, when app.url is set, that
// the organisation is reachable.
func newCheckCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Launch a browser and report the page it lands on",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			m := browser.NewManager(&cfg.Browser, logger)
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Browser.ShutdownTimeout)
				defer cancel()
				_ = m.Shutdown(shutdownCtx)
			}()

			s, err := m.NewSession(ctx)
			if err != nil {
				return err
			}
			defer s.Quit()

			target := cfg.App.URL
			if target == "" {
				target = "about:blank"
			}
			if err := s.Navigate(ctx, target); err != nil {
				return err
			}
			if err := s.WaitForPageToLoad(ctx); err != nil {
				return err
			}

			title, err := s.Title(ctx)
			if err != nil {
				return err
			}
			location, err := s.Location(ctx)
			if err != nil {
				return err
			}

			logger.Info("Browser check passed", zap.String("title", title), zap.String("url", location))
			fmt.Fprintf(cmd.OutOrStdout(), "title: %s\nurl:   %s\n", title, location)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "overall time limit")
	return cmd
}
