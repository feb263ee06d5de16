package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/soumyendra98/GymApp/internal/models"
)

const defaultActivityFeedLimit = 50

// getStats returns the role-shaped dashboard stats, optionally scoped to a
// location (admins only pass a location filter)
func (s *Server) getStats(c *gin.Context) {
	sessionData, exists := GetSessionData(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stats, err := s.dashboardSvc.StatsFor(c.Request.Context(), sessionData, c.Query("location"))
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", sessionData.UserID).Msg("Failed to compute stats")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondData(c, http.StatusOK, stats)
}

// getActivityFeed returns recent activity: admins and instructors see the
// gym's feed, members see their own
func (s *Server) getActivityFeed(c *gin.Context) {
	sessionData, exists := GetSessionData(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := defaultActivityFeedLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	query := s.db.Preload("User").Order("created_at DESC").Limit(limit)
	if sessionData.Role == models.RoleMember {
		query = query.Where("user_id = ?", sessionData.UserID)
	} else {
		query = query.Where("gym_id = ?", sessionData.GymID)
	}

	var activity []models.Activity
	if err := query.Find(&activity).Error; err != nil {
		s.logger.Error().Err(err).Str("user_id", sessionData.UserID).Msg("Failed to list activity")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondData(c, http.StatusOK, gin.H{"activity": activity})
}
