package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soumyendra98/GymApp/internal/models"
)

// InviteInstructorsRequest invites instructors onto the gym's roster
type InviteInstructorsRequest struct {
	Instructors []MemberInvite `json:"instructors" binding:"required,min=1,dive"`
}

// listInstructors lists the gym's instructors (admin only)
func (s *Server) listInstructors(c *gin.Context) {
	gym, _, ok := s.gymForSession(c)
	if !ok {
		return
	}

	query := s.db.Where("gym_id = ? AND role = ?", gym.ID, models.RoleInstructor)
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", like, like, like)
	}

	var instructors []models.User
	if err := query.Order("created_at DESC").Find(&instructors).Error; err != nil {
		s.logger.Error().Err(err).Str("gym_id", gym.ID).Msg("Failed to list instructors")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondData(c, http.StatusOK, gin.H{"instructors": instructors})
}

// inviteInstructors creates invited instructor accounts and queues invite
// emails (admin only)
func (s *Server) inviteInstructors(c *gin.Context) {
	var req InviteInstructorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	gym, sessionData, ok := s.gymForSession(c)
	if !ok {
		return
	}

	invites := make([]TeamInvite, len(req.Instructors))
	for i, instructor := range req.Instructors {
		invites[i] = TeamInvite{
			FirstName: instructor.FirstName,
			LastName:  instructor.LastName,
			Email:     instructor.Email,
			Role:      models.RoleInstructor,
		}
	}

	invited, err := s.createInvitedUsers(gym.ID, "", invites)
	if err != nil {
		s.logger.Error().Err(err).Str("gym_id", gym.ID).Msg("Failed to invite instructors")
		respondError(c, http.StatusInternalServerError, "Failed to send invites")
		return
	}

	s.logger.Info().
		Int("count", len(invited)).
		Str("gym_id", gym.ID).
		Str("invited_by", sessionData.UserID).
		Msg("Instructors invited")

	respondData(c, http.StatusOK, gin.H{"instructors": invited})
}
