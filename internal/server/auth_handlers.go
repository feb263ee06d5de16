package server

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/soumyendra98/GymApp/internal/auth"
	"github.com/soumyendra98/GymApp/internal/models"
)

// OnboardGymRequest represents the gym onboarding request: creates the gym
// and its owner's admin account in one step
type OnboardGymRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" binding:"required,min=8"`
	GymName   string `json:"gymName" binding:"required"`
}

// SignupRequest represents a member self-signup request
type SignupRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

// SigninRequest represents a signin request
type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by signin/signup/onboard
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// onboardGym creates the gym, a default location and the owner's admin account.
// On first run it also generates and persists the JWT secret.
func (s *Server) onboardGym(c *gin.Context) {
	var req OnboardGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to check existing email")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if count > 0 {
		respondError(c, http.StatusConflict, "An account with this email already exists")
		return
	}

	// First onboarding generates the deployment's JWT secret
	var appConfig models.Config
	if err := s.db.First(&appConfig).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error().Err(err).Msg("Failed to load config")
			respondError(c, http.StatusInternalServerError, "Internal server error")
			return
		}

		secretBytes := make([]byte, 32)
		if _, err := rand.Read(secretBytes); err != nil {
			s.logger.Error().Err(err).Msg("Failed to generate JWT secret")
			respondError(c, http.StatusInternalServerError, "Failed to initialize system")
			return
		}
		appConfig = models.Config{
			JWTSecret:           hex.EncodeToString(secretBytes),
			ExpirySweepSchedule: "0 3 * * *",
		}
		if err := s.db.Create(&appConfig).Error; err != nil {
			s.logger.Error().Err(err).Msg("Failed to create config")
			respondError(c, http.StatusInternalServerError, "Failed to initialize system")
			return
		}
		auth.InitializeJWT(appConfig.JWTSecret)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		respondError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	owner := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
		Status:       models.UserStatusActive,
	}

	gym := &models.Gym{Name: req.GymName}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(owner).Error; err != nil {
			return err
		}
		gym.OwnerID = owner.ID
		if err := tx.Create(gym).Error; err != nil {
			return err
		}
		location := &models.Location{GymID: gym.ID, Name: "Main"}
		if err := tx.Create(location).Error; err != nil {
			return err
		}
		owner.GymID = gym.ID
		owner.LocationID = location.ID
		return tx.Save(owner).Error
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to onboard gym")
		respondError(c, http.StatusInternalServerError, "Failed to onboard gym")
		return
	}

	token, err := auth.GenerateToken(owner.ID, owner.Email, owner.Role)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate token")
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.logger.Info().Str("gym_id", gym.ID).Str("user_id", owner.ID).Msg("Gym onboarded")

	respondData(c, http.StatusOK, AuthResponse{Token: token, User: owner})
}

// signup creates a member account. The member joins the deployment's gym when
// exactly one exists; otherwise the account stays unattached until enrolled.
func (s *Server) signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to check existing email")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if count > 0 {
		respondError(c, http.StatusConflict, "An account with this email already exists")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		respondError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	user := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         models.RoleMember,
		Status:       models.UserStatusActive,
	}

	var gyms []models.Gym
	if err := s.db.Limit(2).Find(&gyms).Error; err == nil && len(gyms) == 1 {
		user.GymID = gyms[0].ID
	}

	if err := s.db.Create(user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create user")
		respondError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate token")
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("Member signed up")

	respondData(c, http.StatusOK, AuthResponse{Token: token, User: user})
}

// signin authenticates with email and password
func (s *Server) signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find user")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := auth.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	// An invited user signing in for the first time activates the account
	if user.Status == models.UserStatusInvited {
		user.Status = models.UserStatusActive
		if err := s.db.Model(&user).Update("status", models.UserStatusActive).Error; err != nil {
			s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to activate invited user")
		}
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate token")
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User signed in")

	respondData(c, http.StatusOK, AuthResponse{Token: token, User: &user})
}

// getCurrentUser returns the authenticated user's profile
func (s *Server) getCurrentUser(c *gin.Context) {
	sessionData, exists := GetSessionData(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var user models.User
	if err := s.db.Preload("Location").Where("id = ?", sessionData.UserID).First(&user).Error; err != nil {
		s.logger.Error().Err(err).Str("user_id", sessionData.UserID).Msg("Failed to find user")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondData(c, http.StatusOK, gin.H{"user": user})
}
