package auth

import "github.com/soumyendra98/GymApp/internal/models"

// SessionData represents the authenticated session context for a request
type SessionData struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	GymID  string      `json:"gym_id"`
}
