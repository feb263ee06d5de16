package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/soumyendra98/GymApp/internal/models"
)

// CreatePlanRequest creates a class/membership plan
type CreatePlanRequest struct {
	Name         string              `json:"name" binding:"required"`
	Description  string              `json:"description"`
	PriceCents   int64               `json:"priceCents" binding:"min=0"`
	ScheduleType models.ScheduleType `json:"scheduleType" binding:"required,oneof=RECURRING NON_RECURRING"`
	ScheduleDays string              `json:"scheduleDays"`
	ScheduleTime string              `json:"scheduleTime"`
	DurationDays int                 `json:"durationDays"`
	InstructorID string              `json:"instructorId"`
	LocationID   string              `json:"locationId"`
}

// UpdatePlanRequest updates an existing plan
type UpdatePlanRequest struct {
	ID string `json:"id" binding:"required"`
	CreatePlanRequest
}

// listPlans lists the gym's plans. Instructors see only the classes they teach.
func (s *Server) listPlans(c *gin.Context) {
	gym, sessionData, ok := s.gymForSession(c)
	if !ok {
		return
	}

	query := s.db.Preload("Instructor").Preload("Location").
		Where("gym_id = ?", gym.ID)

	if sessionData.Role == models.RoleInstructor {
		query = query.Where("instructor_id = ?", sessionData.UserID)
	}
	if locationID := c.Query("location"); locationID != "" {
		query = query.Where("location_id = ?", locationID)
	}

	var plans []models.Plan
	if err := query.Order("created_at DESC").Find(&plans).Error; err != nil {
		s.logger.Error().Err(err).Str("gym_id", gym.ID).Msg("Failed to list plans")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondData(c, http.StatusOK, gin.H{"plans": plans})
}

// getPlan returns a single plan
func (s *Server) getPlan(c *gin.Context) {
	gym, _, ok := s.gymForSession(c)
	if !ok {
		return
	}

	var plan models.Plan
	err := s.db.Preload("Instructor").Preload("Location").
		Where("id = ? AND gym_id = ?", c.Param("id"), gym.ID).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Plan not found")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find plan")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondData(c, http.StatusOK, gin.H{"plan": plan})
}

// validatePlanRefs ensures the instructor and location, when set, belong to
// the gym. Both are optional; plans may be unassigned.
func (s *Server) validatePlanRefs(gymID, instructorID, locationID string) error {
	if instructorID != "" {
		var instructor models.User
		if err := s.db.Where("id = ? AND gym_id = ? AND role = ?", instructorID, gymID, models.RoleInstructor).
			First(&instructor).Error; err != nil {
			return errors.New("unknown instructor")
		}
	}
	if locationID != "" {
		var location models.Location
		if err := s.db.Where("id = ? AND gym_id = ?", locationID, gymID).First(&location).Error; err != nil {
			return errors.New("unknown location")
		}
	}
	return nil
}

// createPlan creates a plan (admin only)
func (s *Server) createPlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	gym, sessionData, ok := s.gymForSession(c)
	if !ok {
		return
	}

	if err := s.validatePlanRefs(gym.ID, req.InstructorID, req.LocationID); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	plan := models.Plan{
		GymID:        gym.ID,
		Name:         req.Name,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		ScheduleType: req.ScheduleType,
		ScheduleDays: req.ScheduleDays,
		ScheduleTime: req.ScheduleTime,
		DurationDays: req.DurationDays,
		InstructorID: req.InstructorID,
		LocationID:   req.LocationID,
	}
	if err := s.db.Create(&plan).Error; err != nil {
		s.logger.Error().Err(err).Str("gym_id", gym.ID).Msg("Failed to create plan")
		respondError(c, http.StatusInternalServerError, "Failed to create plan")
		return
	}

	s.logger.Info().
		Str("plan_id", plan.ID).
		Str("gym_id", gym.ID).
		Str("created_by", sessionData.UserID).
		Msg("Plan created")

	respondData(c, http.StatusCreated, gin.H{"plan": plan})
}

// updatePlan updates an existing plan (admin only)
func (s *Server) updatePlan(c *gin.Context) {
	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	gym, sessionData, ok := s.gymForSession(c)
	if !ok {
		return
	}

	var plan models.Plan
	if err := s.db.Where("id = ? AND gym_id = ?", req.ID, gym.ID).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Plan not found")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find plan")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := s.validatePlanRefs(gym.ID, req.InstructorID, req.LocationID); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	updates := map[string]interface{}{
		"name":          req.Name,
		"description":   req.Description,
		"price_cents":   req.PriceCents,
		"schedule_type": req.ScheduleType,
		"schedule_days": req.ScheduleDays,
		"schedule_time": req.ScheduleTime,
		"duration_days": req.DurationDays,
		"instructor_id": req.InstructorID,
		"location_id":   req.LocationID,
	}
	if err := s.db.Model(&plan).Updates(updates).Error; err != nil {
		s.logger.Error().Err(err).Str("plan_id", plan.ID).Msg("Failed to update plan")
		respondError(c, http.StatusInternalServerError, "Failed to update plan")
		return
	}

	s.logger.Info().
		Str("plan_id", plan.ID).
		Str("updated_by", sessionData.UserID).
		Msg("Plan updated")

	respondData(c, http.StatusOK, gin.H{"plan": plan})
}
