package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/soumyendra98/GymApp/internal/models"
)

// EnrollMembershipRequest enrolls a member into a plan
type EnrollMembershipRequest struct {
	MemberID  string `json:"memberId" binding:"required"`
	PlanID    string `json:"planId" binding:"required"`
	StartDate string `json:"startDate"` // RFC 3339 date, defaults to today
}

// CreateMembershipActivityRequest logs a workout entry against a membership
type CreateMembershipActivityRequest struct {
	MembershipID    string `json:"membershipId" binding:"required"`
	EquipmentType   string `json:"equipmentType" binding:"required"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"durationMinutes" binding:"required,min=1"`
}

// UpdateMembershipActivityRequest edits a previously logged workout entry
type UpdateMembershipActivityRequest struct {
	ID              string `json:"id" binding:"required"`
	EquipmentType   string `json:"equipmentType" binding:"required"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"durationMinutes" binding:"required,min=1"`
}

// listMemberships lists memberships: admins see the whole gym, members see
// their own, instructors see memberships on their classes
func (s *Server) listMemberships(c *gin.Context) {
	gym, sessionData, ok := s.gymForSession(c)
	if !ok {
		return
	}

	query := s.db.Preload("Member").Preload("Plan").
		Joins("JOIN plans ON plans.id = memberships.plan_id").
		Where("plans.gym_id = ?", gym.ID)

	switch sessionData.Role {
	case models.RoleMember:
		query = query.Where("memberships.member_id = ?", sessionData.UserID)
	case models.RoleInstructor:
		query = query.Where("plans.instructor_id = ?", sessionData.UserID)
	}

	var memberships []models.Membership
	if err := query.Order("memberships.created_at DESC").Find(&memberships).Error; err != nil {
		s.logger.Error().Err(err).Str("gym_id", gym.ID).Msg("Failed to list memberships")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondData(c, http.StatusOK, gin.H{"memberships": memberships})
}

// membershipForSession loads a membership the session user may see
func (s *Server) membershipForSession(c *gin.Context, membershipID string) (*models.Membership, bool) {
	_, sessionData, ok := s.gymForSession(c)
	if !ok {
		return nil, false
	}

	var membership models.Membership
	err := s.db.Preload("Member").Preload("Plan").Preload("Plan.Instructor").
		Where("id = ?", membershipID).First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Membership not found")
			return nil, false
		}
		s.logger.Error().Err(err).Msg("Failed to find membership")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}

	if membership.Plan == nil || membership.Plan.GymID != sessionData.GymID {
		respondError(c, http.StatusNotFound, "Membership not found")
		return nil, false
	}
	if sessionData.Role == models.RoleMember && membership.MemberID != sessionData.UserID {
		respondError(c, http.StatusForbidden, "You don't have access to this membership")
		return nil, false
	}

	return &membership, true
}

// getMembership returns a single membership with its plan and member
func (s *Server) getMembership(c *gin.Context) {
	membership, ok := s.membershipForSession(c, c.Param("id"))
	if !ok {
		return
	}
	respondData(c, http.StatusOK, gin.H{"membership": membership})
}

// enrollMembership enrolls a member into a plan (admin only). The membership
// window is computed from the plan's schedule.
func (s *Server) enrollMembership(c *gin.Context) {
	var req EnrollMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	gym, sessionData, ok := s.gymForSession(c)
	if !ok {
		return
	}

	var member models.User
	if err := s.db.Where("id = ? AND gym_id = ? AND role = ?", req.MemberID, gym.ID, models.RoleMember).
		First(&member).Error; err != nil {
		respondError(c, http.StatusBadRequest, "Unknown member")
		return
	}

	var plan models.Plan
	if err := s.db.Where("id = ? AND gym_id = ?", req.PlanID, gym.ID).First(&plan).Error; err != nil {
		respondError(c, http.StatusBadRequest, "Unknown plan")
		return
	}

	start := time.Now()
	if req.StartDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.StartDate)
		if err != nil {
			respondError(c, http.StatusBadRequest, "startDate must be RFC 3339")
			return
		}
		start = parsed
	}

	// One active membership per member per plan
	var existing int64
	err := s.db.Model(&models.Membership{}).
		Where("member_id = ? AND plan_id = ? AND status = ?", member.ID, plan.ID, models.MembershipActive).
		Count(&existing).Error
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to check existing membership")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if existing > 0 {
		respondError(c, http.StatusConflict, "Member is already enrolled in this plan")
		return
	}

	startDate, endDate := models.PeriodFor(&plan, start)
	membership := models.Membership{
		MemberID:     member.ID,
		PlanID:       plan.ID,
		Status:       models.MembershipActive,
		StartDate:    startDate,
		EndDate:      endDate,
		EnrolledByID: sessionData.UserID,
	}
	if err := s.db.Create(&membership).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create membership")
		respondError(c, http.StatusInternalServerError, "Failed to enroll member")
		return
	}

	s.logger.Info().
		Str("membership_id", membership.ID).
		Str("member_id", member.ID).
		Str("plan_id", plan.ID).
		Str("enrolled_by", sessionData.UserID).
		Msg("Member enrolled")

	respondData(c, http.StatusCreated, gin.H{"membership": membership})
}

// listMembershipActivity returns the activity log for a membership
func (s *Server) listMembershipActivity(c *gin.Context) {
	membership, ok := s.membershipForSession(c, c.Param("id"))
	if !ok {
		return
	}

	var activity []models.Activity
	err := s.db.Where("membership_id = ?", membership.ID).
		Order("created_at DESC").
		Find(&activity).Error
	if err != nil {
		s.logger.Error().Err(err).Str("membership_id", membership.ID).Msg("Failed to list activity")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondData(c, http.StatusOK, gin.H{"activity": activity})
}

// createMembershipActivity logs a workout entry against a membership. Members
// may only log against their own membership.
func (s *Server) createMembershipActivity(c *gin.Context) {
	var req CreateMembershipActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	membership, ok := s.membershipForSession(c, req.MembershipID)
	if !ok {
		return
	}

	activity := models.Activity{
		GymID:           membership.Plan.GymID,
		UserID:          membership.MemberID,
		MembershipID:    membership.ID,
		Type:            models.ActivityLog,
		EquipmentType:   req.EquipmentType,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
	}
	if err := s.db.Create(&activity).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create activity")
		respondError(c, http.StatusInternalServerError, "Failed to log activity")
		return
	}

	respondData(c, http.StatusCreated, gin.H{"activity": activity})
}

// updateMembershipActivity edits a previously logged workout entry
func (s *Server) updateMembershipActivity(c *gin.Context) {
	var req UpdateMembershipActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var activity models.Activity
	if err := s.db.Where("id = ? AND type = ?", req.ID, models.ActivityLog).First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Activity not found")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find activity")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Visibility and ownership rules follow the parent membership
	if _, ok := s.membershipForSession(c, activity.MembershipID); !ok {
		return
	}

	updates := map[string]interface{}{
		"equipment_type":   req.EquipmentType,
		"description":      req.Description,
		"duration_minutes": req.DurationMinutes,
	}
	if err := s.db.Model(&activity).Updates(updates).Error; err != nil {
		s.logger.Error().Err(err).Str("activity_id", activity.ID).Msg("Failed to update activity")
		respondError(c, http.StatusInternalServerError, "Failed to update activity")
		return
	}

	respondData(c, http.StatusOK, gin.H{"activity": activity})
}
