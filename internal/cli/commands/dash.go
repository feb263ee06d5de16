package commands

import (
	"github.com/spf13/cobra"
)

// NewDashCmd creates the dash command, a shortcut for the dashboard screen
func NewDashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Show your dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(cmd.Context(), "/dashboard/overview", "")
		},
	}
}
