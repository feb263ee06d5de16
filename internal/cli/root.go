// Package cli wires the gymapp command tree
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soumyendra98/GymApp/internal/cli/commands"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "gymapp",
	Short: "GymApp - Manage your gym from the terminal",
	Long: `GymApp CLI - Run your gym without leaving the terminal.

Sign in once and your session is kept in the system keyring. Screens are
addressed by path, the same paths the web app uses:

  gymapp open /dashboard/overview
  gymapp open /members/invite`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gymapp version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewOnboardCmd())
	rootCmd.AddCommand(commands.NewSignupCmd())
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewOpenCmd())
	rootCmd.AddCommand(commands.NewDashCmd())
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
