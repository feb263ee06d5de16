package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to your gym account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set GYMAPP_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set GYMAPP_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(ctx context.Context, email, password string) error {
	// Environment variables are useful for CI/CD
	if email == "" {
		email = os.Getenv("GYMAPP_EMAIL")
	}
	if password == "" {
		password = os.Getenv("GYMAPP_PASSWORD")
	}

	if email == "" {
		prompt := promptui.Prompt{
			Label: "Email",
			Validate: func(input string) error {
				if !strings.Contains(input, "@") {
					return fmt.Errorf("invalid email address")
				}
				return nil
			},
		}
		value, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("email is required (use --email flag or GYMAPP_EMAIL env var)")
		}
		email = value
	}

	if password == "" {
		prompt := promptui.Prompt{
			Label: "Password",
			Mask:  '*',
		}
		value, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("password is required (use --password flag or GYMAPP_PASSWORD env var)")
		}
		password = value
	}

	store, apiClient := newSessionStore()

	fmt.Printf("Signing in to %s...\n", apiBaseURL())

	payload, err := apiClient.Signin(ctx, email, password)
	if err != nil {
		return err
	}

	if err := store.Login(payload.User, payload.Token); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}

	fmt.Println("✓ Signed in!")
	fmt.Printf("  User: %s (%s)\n", payload.User.FullName(), payload.User.Email)
	fmt.Printf("  Role: %s\n", payload.User.Role)

	return nil
}
