package commands

import (
	"context"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/soumyendra98/GymApp/internal/cli/client"
)

// NewOnboardCmd creates the onboard command
func NewOnboardCmd() *cobra.Command {
	var req client.OnboardGymRequest

	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Register a new gym and its owner account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnboard(cmd.Context(), req)
		},
	}

	cmd.Flags().StringVar(&req.GymName, "gym-name", "", "Gym name")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "Owner first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Owner last name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Owner email address")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Owner phone number")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (will prompt if not provided)")

	return cmd
}

func runOnboard(ctx context.Context, req client.OnboardGymRequest) error {
	var err error
	if req.GymName, err = promptIfEmpty(req.GymName, "Gym name"); err != nil {
		return err
	}
	if req.FirstName, err = promptIfEmpty(req.FirstName, "Owner first name"); err != nil {
		return err
	}
	if req.LastName, err = promptIfEmpty(req.LastName, "Owner last name"); err != nil {
		return err
	}
	if req.Email, err = promptIfEmpty(req.Email, "Owner email"); err != nil {
		return err
	}
	if req.Phone, err = promptIfEmpty(req.Phone, "Owner phone"); err != nil {
		return err
	}
	if req.Password == "" {
		prompt := promptui.Prompt{Label: "Password", Mask: '*'}
		if req.Password, err = prompt.Run(); err != nil {
			return fmt.Errorf("password is required")
		}
	}

	store, apiClient := newSessionStore()

	payload, err := apiClient.OnboardGym(ctx, req)
	if err != nil {
		return err
	}

	if err := store.Login(payload.User, payload.Token); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}

	fmt.Printf("✓ %s is ready!\n", req.GymName)
	fmt.Printf("  Owner: %s (%s)\n", payload.User.FullName(), payload.User.Email)
	fmt.Println("  Invite your team with: gymapp open /members/invite")

	return nil
}
