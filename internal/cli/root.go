package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fecload",
		Short: "fecload - FEC schedule A to BigQuery refresh job",
		Long: `fecload pulls individual campaign contributions from the FEC disclosure
API, filters and reshapes them, and rebuilds the combined reporting tables
in BigQuery.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(NewRefreshCmd())
	rootCmd.AddCommand(NewServeCmd())

	return rootCmd
}
