package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/soumyendra98/GymApp/internal/auth"
	"github.com/soumyendra98/GymApp/internal/models"
	"github.com/soumyendra98/GymApp/internal/tasks"
)

// UpdateGymProfileRequest updates the gym's display profile
type UpdateGymProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

// TeamInvite is a single row in a team invite request
type TeamInvite struct {
	FirstName string      `json:"firstName" binding:"required"`
	LastName  string      `json:"lastName" binding:"required"`
	Email     string      `json:"email" binding:"required,email"`
	Role      models.Role `json:"role" binding:"required,oneof=ADMIN INSTRUCTOR"`
}

// InviteGymTeamRequest invites admins/instructors onto the gym's team
type InviteGymTeamRequest struct {
	Invites []TeamInvite `json:"invites" binding:"required,min=1,dive"`
}

// CreateGymActivityRequest records a member check-in/check-out at the front desk
type CreateGymActivityRequest struct {
	UserID       string              `json:"userId" binding:"required"`
	MembershipID string              `json:"membershipId"`
	Type         models.ActivityType `json:"type" binding:"required,oneof=CHECK_IN CHECK_OUT"`
}

// gymForSession loads the gym the session user belongs to
func (s *Server) gymForSession(c *gin.Context) (*models.Gym, *auth.SessionData, bool) {
	sessionData, exists := GetSessionData(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return nil, nil, false
	}
	if sessionData.GymID == "" {
		respondError(c, http.StatusNotFound, "You are not part of a gym yet")
		return nil, nil, false
	}

	var gym models.Gym
	if err := s.db.Preload("Locations").Where("id = ?", sessionData.GymID).First(&gym).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Gym not found")
			return nil, nil, false
		}
		s.logger.Error().Err(err).Str("gym_id", sessionData.GymID).Msg("Failed to load gym")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return nil, nil, false
	}

	return &gym, sessionData, true
}

// getGymProfile returns the session user's gym with its locations
func (s *Server) getGymProfile(c *gin.Context) {
	gym, _, ok := s.gymForSession(c)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, gin.H{"gym": gym})
}

// updateGymProfile updates the gym's profile (admin only)
func (s *Server) updateGymProfile(c *gin.Context) {
	var req UpdateGymProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	gym, sessionData, ok := s.gymForSession(c)
	if !ok {
		return
	}

	if err := s.db.Model(gym).Update("name", req.Name).Error; err != nil {
		s.logger.Error().Err(err).Str("gym_id", gym.ID).Msg("Failed to update gym")
		respondError(c, http.StatusInternalServerError, "Failed to update gym profile")
		return
	}

	s.logger.Info().Str("gym_id", gym.ID).Str("updated_by", sessionData.UserID).Msg("Gym profile updated")

	respondData(c, http.StatusOK, gin.H{"gym": gym})
}

// getGymTeam lists the gym's admins and instructors (admin only)
func (s *Server) getGymTeam(c *gin.Context) {
	gym, _, ok := s.gymForSession(c)
	if !ok {
		return
	}

	var team []models.User
	err := s.db.
		Where("gym_id = ? AND role IN ?", gym.ID, []models.Role{models.RoleAdmin, models.RoleInstructor}).
		Order("created_at DESC").
		Find(&team).Error
	if err != nil {
		s.logger.Error().Err(err).Str("gym_id", gym.ID).Msg("Failed to list team")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondData(c, http.StatusOK, gin.H{"team": team})
}

// inviteGymTeam creates invited admin/instructor accounts and queues invite
// emails (admin only)
func (s *Server) inviteGymTeam(c *gin.Context) {
	var req InviteGymTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	gym, sessionData, ok := s.gymForSession(c)
	if !ok {
		return
	}

	invited, err := s.createInvitedUsers(gym.ID, "", req.Invites)
	if err != nil {
		s.logger.Error().Err(err).Str("gym_id", gym.ID).Msg("Failed to invite team")
		respondError(c, http.StatusInternalServerError, "Failed to send invites")
		return
	}

	s.logger.Info().
		Int("count", len(invited)).
		Str("gym_id", gym.ID).
		Str("invited_by", sessionData.UserID).
		Msg("Team invited")

	respondData(c, http.StatusOK, gin.H{"team": invited})
}

// createInvitedUsers persists invited accounts and enqueues one invite email
// task per account. Duplicate emails fail the whole batch.
func (s *Server) createInvitedUsers(gymID, locationID string, invites []TeamInvite) ([]models.User, error) {
	users := make([]models.User, 0, len(invites))

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, invite := range invites {
			user := models.User{
				FirstName:  invite.FirstName,
				LastName:   invite.LastName,
				Email:      invite.Email,
				Role:       invite.Role,
				Status:     models.UserStatusInvited,
				GymID:      gymID,
				LocationID: locationID,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			users = append(users, user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		task, err := tasks.NewInviteEmailTask(user.ID)
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to build invite email task")
			continue
		}
		if _, err := s.asynqClient.Enqueue(task); err != nil {
			// The account exists either way; the invite email can be re-sent
			s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to enqueue invite email")
		}
	}

	return users, nil
}

// getGymLocations returns the gym's locations
func (s *Server) getGymLocations(c *gin.Context) {
	gym, _, ok := s.gymForSession(c)
	if !ok {
		return
	}

	var locations []models.Location
	if err := s.db.Where("gym_id = ?", gym.ID).Order("created_at ASC").Find(&locations).Error; err != nil {
		s.logger.Error().Err(err).Str("gym_id", gym.ID).Msg("Failed to list locations")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondData(c, http.StatusOK, gin.H{"locations": locations})
}

// createGymActivity records a front-desk check-in or check-out for a member
// (admin/instructor only)
func (s *Server) createGymActivity(c *gin.Context) {
	var req CreateGymActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	gym, sessionData, ok := s.gymForSession(c)
	if !ok {
		return
	}

	var member models.User
	if err := s.db.Where("id = ? AND gym_id = ?", req.UserID, gym.ID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Member not found")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find member")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	activity := models.Activity{
		GymID:        gym.ID,
		UserID:       member.ID,
		MembershipID: req.MembershipID,
		Type:         req.Type,
	}
	if err := s.db.Create(&activity).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create activity")
		respondError(c, http.StatusInternalServerError, "Failed to record activity")
		return
	}

	s.logger.Info().
		Str("activity_id", activity.ID).
		Str("user_id", member.ID).
		Str("type", string(req.Type)).
		Str("recorded_by", sessionData.UserID).
		Msg("Gym activity recorded")

	respondData(c, http.StatusOK, gin.H{"activity": activity})
}
