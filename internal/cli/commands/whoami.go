package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, sess, err := requireSession(cmd.Context())
			if err != nil {
				return err
			}

			user := sess.User
			fmt.Printf("%s <%s>\n", user.FullName(), user.Email)
			fmt.Printf("Role: %s\n", user.Role)
			if user.Location != nil {
				fmt.Printf("Location: %s\n", user.Location.Name)
			}
			return nil
		},
	}
}
