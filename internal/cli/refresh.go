package cli

import (
	"github.com/spf13/cobra"
)

func NewRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Run one full refresh of the reporting tables",
		RunE: func(c *cobra.Command, args []string) error {
			return runRefresh(c.Context())
		},
	}
}

func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP refresh trigger, plus the cron trigger when configured",
		RunE: func(c *cobra.Command, args []string) error {
			return runServe(c.Context())
		},
	}
}
