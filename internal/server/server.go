package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/soumyendra98/GymApp/internal/auth"
	"github.com/soumyendra98/GymApp/internal/config"
	"github.com/soumyendra98/GymApp/internal/dashboard"
	"github.com/soumyendra98/GymApp/internal/models"
)

// Server represents the HTTP server
type Server struct {
	router       *gin.Engine
	db           *gorm.DB
	config       *config.Config
	logger       zerolog.Logger
	validator    *validator.Validate
	asynqClient  *asynq.Client
	dashboardSvc *dashboard.Service
	version      string
}

// New creates a new server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	db, err := initDatabase(cfg, zlog)
	if err != nil {
		return nil, err
	}

	if err := models.AutoMigrate(db); err != nil {
		return nil, err
	}

	// Initialize JWT authentication. The secret is auto-generated during gym
	// onboarding and persisted; an env override wins for multi-instance setups.
	if cfg.Auth.JWTSecret != "" {
		auth.InitializeJWT(cfg.Auth.JWTSecret)
	} else {
		var appConfig models.Config
		if err := db.First(&appConfig).Error; err == nil {
			auth.InitializeJWT(appConfig.JWTSecret)
			zlog.Debug().Msg("Loaded JWT secret from database")
		} else {
			zlog.Info().Msg("No config found - JWT will be initialized during gym onboarding")
		}
	}

	validate := validator.New()

	// Initialize Asynq client for enqueueing invite email tasks
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr: cfg.Redis.Address,
	})

	// Redis-backed dashboard stats cache shares the task queue's Redis
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Address})
	dashboardSvc := dashboard.NewService(db, redisClient, zlog)

	server := &Server{
		db:           db,
		config:       cfg,
		logger:       zlog,
		validator:    validate,
		asynqClient:  asynqClient,
		dashboardSvc: dashboardSvc,
		version:      version,
	}

	server.setupRouter()

	return server, nil
}

// initDatabase initializes the database connection with production settings
func initDatabase(cfg *config.Config, zlog zerolog.Logger) (*gorm.DB, error) {
	const (
		maxOpenConns    = 8
		maxIdleConns    = 4
		connMaxLifetime = 300 * time.Second
		busyTimeout     = 5000 // ms
	)

	db, err := gorm.Open(sqlite.Open(cfg.Database.URL), &gorm.Config{
		Logger: gormlogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormlogger.Config{
				LogLevel:                  gormlogger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// WAL mode must be set first for optimal concurrency
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout),
		"PRAGMA foreign_keys=1",
		"PRAGMA temp_store=2",
	}

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			zlog.Warn().Str("pragma", pragma).Err(err).Msg("Failed to apply pragma")
		}
	}

	return db, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	s.router.Use(gin.Recovery())
	s.router.Use(RequestIDMiddleware())
	s.router.Use(s.loggingMiddleware())

	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint (no auth required)
	s.router.GET("/health", s.healthCheck)

	// Public auth endpoints (no auth required)
	s.router.POST("/api/gyms/onboard", s.onboardGym)
	s.router.POST("/api/users/signup", s.signup)
	s.router.POST("/api/users/signin", s.signin)

	// Authenticated API routes (JWT required)
	api := s.router.Group("/api")
	api.Use(JWTAuthMiddleware(s.db, s.logger))
	{
		// Current user + dashboard
		api.GET("/users/me", s.getCurrentUser)
		api.GET("/users/stats", s.getStats)
		api.GET("/users/activity", s.getActivityFeed)

		// Gym profile, team and locations
		api.GET("/gyms/profile", s.getGymProfile)
		api.PUT("/gyms/profile", RequireRoles(s.logger, models.RoleAdmin), s.updateGymProfile)
		api.GET("/gyms/team", RequireRoles(s.logger, models.RoleAdmin), s.getGymTeam)
		api.POST("/gyms/team/invite", RequireRoles(s.logger, models.RoleAdmin), s.inviteGymTeam)
		api.GET("/gyms/locations", s.getGymLocations)
		api.POST("/gyms/activity", RequireRoles(s.logger, models.RoleAdmin, models.RoleInstructor), s.createGymActivity)

		// Members (admin only)
		members := api.Group("/members")
		members.Use(RequireRoles(s.logger, models.RoleAdmin))
		{
			members.GET("", s.listMembers)
			members.POST("/invite", s.inviteMembers)
		}

		// Instructors (admin only)
		instructors := api.Group("/instructors")
		instructors.Use(RequireRoles(s.logger, models.RoleAdmin))
		{
			instructors.GET("", s.listInstructors)
			instructors.POST("/invite", s.inviteInstructors)
		}

		// Plans: all roles can browse, only admins mutate
		api.GET("/plans", s.listPlans)
		api.GET("/plans/:id", s.getPlan)
		api.POST("/plans", RequireRoles(s.logger, models.RoleAdmin), s.createPlan)
		api.PUT("/plans", RequireRoles(s.logger, models.RoleAdmin), s.updatePlan)

		// Memberships
		api.GET("/memberships", s.listMemberships)
		api.GET("/memberships/:id", s.getMembership)
		api.POST("/memberships/enroll", RequireRoles(s.logger, models.RoleAdmin), s.enrollMembership)
		api.GET("/memberships/:id/activity", s.listMembershipActivity)
		api.POST("/memberships/activity", s.createMembershipActivity)
		api.PUT("/memberships/activity", s.updateMembershipActivity)
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", c.GetString("request_id")).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "gymapp-api",
		"version":   s.version,
	})
}

// GetDB returns the database connection for use by workers
func (s *Server) GetDB() *gorm.DB {
	return s.db
}

// Router returns the configured gin engine (used by handler tests)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start starts the HTTP server and blocks until shutdown
func (s *Server) Start() error {
	addr := ":" + s.config.Server.Port

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       300 * time.Second,
	}

	go func() {
		s.logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	<-sigChan
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	if err := s.asynqClient.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("Error closing Asynq client")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	// Close database connection to flush WAL writes
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Error closing database")
		}
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
