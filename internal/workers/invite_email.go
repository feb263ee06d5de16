package workers

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/soumyendra98/GymApp/internal/email"
	"github.com/soumyendra98/GymApp/internal/models"
	"github.com/soumyendra98/GymApp/internal/tasks"
)

// HandleInviteEmail sends an invitation email to an invited user
func HandleInviteEmail(ctx context.Context, task *asynq.Task, db *gorm.DB, sender email.Sender, logger zerolog.Logger) error {
	payload, err := tasks.ParseInviteEmailPayload(task)
	if err != nil {
		return err
	}

	var user models.User
	if err := db.Where("id = ?", payload.UserID).First(&user).Error; err != nil {
		// The invite may have been revoked before the task ran; nothing to retry
		logger.Warn().Err(err).Str("user_id", payload.UserID).Msg("Invited user no longer exists")
		return nil
	}

	if user.Status != models.UserStatusInvited {
		logger.Debug().Str("user_id", user.ID).Msg("User already active - skipping invite email")
		return nil
	}

	var gym models.Gym
	gymName := "your gym"
	if user.GymID != "" {
		if err := db.Where("id = ?", user.GymID).First(&gym).Error; err == nil {
			gymName = gym.Name
		}
	}

	messageID, err := sender.Send(ctx, email.Message{
		To:      []string{user.Email},
		Subject: fmt.Sprintf("You've been invited to %s", gymName),
		HTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>You've been invited to join <b>%s</b> as %s. Sign in with your email to get started.</p>",
			user.FirstName, gymName, roleArticle(user.Role),
		),
	})
	if err != nil {
		// Returning the error lets asynq retry with backoff
		return fmt.Errorf("failed to send invite email to user %s: %w", user.ID, err)
	}

	logger.Info().
		Str("user_id", user.ID).
		Str("message_id", messageID).
		Msg("Invite email sent")

	return nil
}

func roleArticle(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return "an admin"
	case models.RoleInstructor:
		return "an instructor"
	default:
		return "a member"
	}
}
