package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	// Invitation email delivery for invited members / team
	TypeInviteEmail = "invite:email"

	// Periodic sweep marking memberships past their end date as expired
	TypeMembershipExpirySweep = "membership:expiry_sweep"
)

// InviteEmailPayload is the payload for invite email tasks
type InviteEmailPayload struct {
	UserID string `json:"user_id"`
}

// NewInviteEmailTask creates a task to send an invitation email to a user
func NewInviteEmailTask(userID string) (*asynq.Task, error) {
	payload, err := json.Marshal(InviteEmailPayload{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeInviteEmail, payload), nil
}

// ParseInviteEmailPayload parses an invite email payload from an Asynq task
func ParseInviteEmailPayload(task *asynq.Task) (InviteEmailPayload, error) {
	var payload InviteEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return payload, nil
}

// NewMembershipExpirySweepTask creates a task to expire lapsed memberships
func NewMembershipExpirySweepTask() *asynq.Task {
	return asynq.NewTask(TypeMembershipExpirySweep, nil)
}
