package main

import (
	"fmt"

	"github.com/copyleftdev/xrmsteps/internal/suite"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var (
		tags        string
		format      string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run feature files",
		Long:  "Runs the features under the given paths, or suite.paths from the configuration when none are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cfg.Suite.Paths = args
			}
			if cmd.Flags().Changed("tags") {
				cfg.Suite.Tags = tags
			}
			if cmd.Flags().Changed("format") {
				cfg.Suite.Format = format
			}
			if cmd.Flags().Changed("concurrency") {
				cfg.Suite.Concurrency = concurrency
			}
			if cfg.Suite.Concurrency > cfg.Browser.MaxSessions {
				logger.Sugar().Infof("Scenarios beyond browser.maxSessions=%d will wait for a free browser", cfg.Browser.MaxSessions)
			}

			if status := suite.New(cfg, logger).Run(); status != 0 {
				return fmt.Errorf("feature run failed with status %d", status)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&tags, "tags", "t", "", "tag expression, e.g. '@smoke && ~@wip'")
	cmd.Flags().StringVarP(&format, "format", "f", "", "godog formatter (pretty, progress, cucumber, junit)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "scenarios to run at once")
	return cmd
}
