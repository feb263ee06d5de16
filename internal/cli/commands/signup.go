package commands

import (
	"context"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/soumyendra98/GymApp/internal/cli/client"
)

// NewSignupCmd creates the signup command
func NewSignupCmd() *cobra.Command {
	var req client.SignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a member account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignup(cmd.Context(), req)
		},
	}

	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (will prompt if not provided)")

	return cmd
}

func runSignup(ctx context.Context, req client.SignupRequest) error {
	var err error
	if req.FirstName, err = promptIfEmpty(req.FirstName, "First name"); err != nil {
		return err
	}
	if req.LastName, err = promptIfEmpty(req.LastName, "Last name"); err != nil {
		return err
	}
	if req.Email, err = promptIfEmpty(req.Email, "Email"); err != nil {
		return err
	}
	if req.Password == "" {
		prompt := promptui.Prompt{Label: "Password", Mask: '*'}
		if req.Password, err = prompt.Run(); err != nil {
			return fmt.Errorf("password is required")
		}
	}

	store, apiClient := newSessionStore()

	payload, err := apiClient.Signup(ctx, req)
	if err != nil {
		return err
	}

	if err := store.Login(payload.User, payload.Token); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}

	fmt.Println("✓ Account created!")
	fmt.Printf("  User: %s (%s)\n", payload.User.FullName(), payload.User.Email)

	return nil
}

func promptIfEmpty(value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if input == "" {
				return fmt.Errorf("%s is required", label)
			}
			return nil
		},
	}
	return prompt.Run()
}
