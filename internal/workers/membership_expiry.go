package workers

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/soumyendra98/GymApp/internal/models"
	"github.com/soumyendra98/GymApp/internal/tasks"
)

// HandleMembershipExpirySweep marks memberships past their end date as expired
func HandleMembershipExpirySweep(ctx context.Context, task *asynq.Task, db *gorm.DB, logger zerolog.Logger) error {
	result := db.WithContext(ctx).Model(&models.Membership{}).
		Where("status = ? AND end_date < ?", models.MembershipActive, time.Now()).
		Update("status", models.MembershipExpired)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		logger.Info().Int64("expired", result.RowsAffected).Msg("Membership expiry sweep complete")
	}

	return nil
}

// StartExpiryScheduler runs a periodic check (every minute) for a due expiry
// sweep, based on the cron schedule stored in the config row
func StartExpiryScheduler(client *asynq.Client, db *gorm.DB, logger zerolog.Logger) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	// Run immediately on startup, then every minute
	checkAndEnqueueSweep(client, db, logger)

	for range ticker.C {
		checkAndEnqueueSweep(client, db, logger)
	}
}

func checkAndEnqueueSweep(client *asynq.Client, db *gorm.DB, logger zerolog.Logger) {
	var config models.Config
	if err := db.First(&config).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Debug().Msg("No config found - skipping expiry sweep check")
			return
		}
		logger.Error().Err(err).Msg("Failed to query config for expiry sweep")
		return
	}

	if config.ExpirySweepSchedule == "" {
		logger.Debug().Msg("No expiry sweep schedule configured")
		return
	}

	if config.NextSweepAt != nil && config.NextSweepAt.After(time.Now()) {
		return
	}

	schedule, err := cron.ParseStandard(config.ExpirySweepSchedule)
	if err != nil {
		logger.Error().
			Err(err).
			Str("schedule", config.ExpirySweepSchedule).
			Msg("Invalid expiry sweep schedule")
		return
	}

	if _, err := client.Enqueue(tasks.NewMembershipExpirySweepTask(), asynq.Queue("low")); err != nil {
		logger.Error().Err(err).Msg("Failed to enqueue expiry sweep")
		return
	}

	now := time.Now()
	next := schedule.Next(now)
	updates := map[string]interface{}{
		"last_sweep_at": now,
		"next_sweep_at": next,
	}
	if err := db.Model(&config).Updates(updates).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to record sweep schedule state")
		return
	}

	logger.Info().Time("next_sweep_at", next).Msg("Membership expiry sweep enqueued")
}
