package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soumyendra98/GymApp/internal/models"
)

// MemberInvite is a single row in a member invite request
type MemberInvite struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}

// InviteMembersRequest invites members at a location
type InviteMembersRequest struct {
	LocationID string         `json:"locationId" binding:"required"`
	Members    []MemberInvite `json:"members" binding:"required,min=1,dive"`
}

// listMembers lists the gym's members, optionally filtered by location or a
// name/email search term (admin only)
func (s *Server) listMembers(c *gin.Context) {
	gym, _, ok := s.gymForSession(c)
	if !ok {
		return
	}

	query := s.db.Preload("Location").
		Where("gym_id = ? AND role = ?", gym.ID, models.RoleMember)

	if locationID := c.Query("location"); locationID != "" {
		query = query.Where("location_id = ?", locationID)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", like, like, like)
	}

	var members []models.User
	if err := query.Order("created_at DESC").Find(&members).Error; err != nil {
		s.logger.Error().Err(err).Str("gym_id", gym.ID).Msg("Failed to list members")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondData(c, http.StatusOK, gin.H{"members": members})
}

// inviteMembers creates invited member accounts at a location and queues
// invite emails (admin only)
func (s *Server) inviteMembers(c *gin.Context) {
	var req InviteMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	gym, sessionData, ok := s.gymForSession(c)
	if !ok {
		return
	}

	var location models.Location
	if err := s.db.Where("id = ? AND gym_id = ?", req.LocationID, gym.ID).First(&location).Error; err != nil {
		respondError(c, http.StatusBadRequest, "Unknown location")
		return
	}

	invites := make([]TeamInvite, len(req.Members))
	for i, m := range req.Members {
		invites[i] = TeamInvite{
			FirstName: m.FirstName,
			LastName:  m.LastName,
			Email:     m.Email,
			Role:      models.RoleMember,
		}
	}

	invited, err := s.createInvitedUsers(gym.ID, location.ID, invites)
	if err != nil {
		s.logger.Error().Err(err).Str("gym_id", gym.ID).Msg("Failed to invite members")
		respondError(c, http.StatusInternalServerError, "Failed to send invites")
		return
	}

	s.logger.Info().
		Int("count", len(invited)).
		Str("gym_id", gym.ID).
		Str("location_id", location.ID).
		Str("invited_by", sessionData.UserID).
		Msg("Members invited")

	respondData(c, http.StatusOK, gin.H{"members": invited})
}
