// Package dashboard aggregates the role-shaped stats shown on the dashboard
// overview screen. Results are cached in Redis for a short TTL since the
// underlying aggregates are the most expensive queries in the app.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/soumyendra98/GymApp/internal/auth"
	"github.com/soumyendra98/GymApp/internal/models"
)

const (
	cachePrefix = "stats:"
	cacheTTL    = 5 * time.Minute
)

// Stats is the dashboard payload. Which fields are populated depends on the
// requesting user's role.
type Stats struct {
	// Admin
	PreviousMonthRevenue  int64 `json:"previousMonthRevenue"`
	CurrentMonthRevenue   int64 `json:"currentMonthRevenue"`
	NewMemberships        int64 `json:"newMemberships"`
	TotalMembers          int64 `json:"totalMembers"`
	TotalInstructors      int64 `json:"totalInstructors"`
	TotalClassesScheduled int64 `json:"totalClassesScheduled"`

	// Member
	PreviousMonthSpent int64 `json:"previousMonthSpent"`
	CurrentMonthSpent  int64 `json:"currentMonthSpent"`
	TotalMemberships   int64 `json:"totalMemberships"`

	// Instructor
	PreviousMonthEarned int64 `json:"previousMonthEarned"`
	CurrentMonthEarned  int64 `json:"currentMonthEarned"`
	TotalClasses        int64 `json:"totalClasses"`
}

// Service computes and caches dashboard stats
type Service struct {
	db     *gorm.DB
	cache  *redis.Client
	logger zerolog.Logger
}

// NewService creates a new dashboard service. A nil cache client disables
// caching (stats are recomputed on every request).
func NewService(db *gorm.DB, cache *redis.Client, logger zerolog.Logger) *Service {
	return &Service{db: db, cache: cache, logger: logger}
}

func cacheKey(session *auth.SessionData, locationID string) string {
	return fmt.Sprintf("%s%s:%s:%s", cachePrefix, session.GymID, session.UserID, locationID)
}

// StatsFor returns the dashboard stats for the session's role, optionally
// scoped to one location
func (s *Service) StatsFor(ctx context.Context, session *auth.SessionData, locationID string) (*Stats, error) {
	key := cacheKey(session, locationID)

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key).Result(); err == nil {
			var cached Stats
			if err := json.Unmarshal([]byte(data), &cached); err == nil {
				return &cached, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("Stats cache read failed")
		}
	}

	stats, err := s.compute(session, locationID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, key, data, cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("Stats cache write failed")
			}
		}
	}

	return stats, nil
}

func (s *Service) compute(session *auth.SessionData, locationID string) (*Stats, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevMonthStart := monthStart.AddDate(0, -1, 0)

	switch session.Role {
	case models.RoleAdmin:
		return s.adminStats(session.GymID, locationID, prevMonthStart, monthStart, now)
	case models.RoleInstructor:
		return s.instructorStats(session.UserID, prevMonthStart, monthStart, now)
	default:
		return s.memberStats(session.UserID, prevMonthStart, monthStart, now)
	}
}

// revenueBetween sums plan prices over memberships created in [from, to)
func (s *Service) revenueBetween(base *gorm.DB, from, to time.Time) (int64, error) {
	var total *int64
	err := base.Session(&gorm.Session{}).
		Where("memberships.created_at >= ? AND memberships.created_at < ?", from, to).
		Select("SUM(plans.price_cents)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (s *Service) adminStats(gymID, locationID string, prevMonthStart, monthStart, now time.Time) (*Stats, error) {
	stats := &Stats{}

	revenue := s.db.Model(&models.Membership{}).
		Joins("JOIN plans ON plans.id = memberships.plan_id").
		Where("plans.gym_id = ?", gymID)
	if locationID != "" {
		revenue = revenue.Where("plans.location_id = ?", locationID)
	}

	var err error
	if stats.PreviousMonthRevenue, err = s.revenueBetween(revenue, prevMonthStart, monthStart); err != nil {
		return nil, fmt.Errorf("failed to compute previous month revenue: %w", err)
	}
	if stats.CurrentMonthRevenue, err = s.revenueBetween(revenue, monthStart, now); err != nil {
		return nil, fmt.Errorf("failed to compute current month revenue: %w", err)
	}

	newMemberships := s.db.Model(&models.Membership{}).
		Joins("JOIN plans ON plans.id = memberships.plan_id").
		Where("plans.gym_id = ? AND memberships.created_at >= ?", gymID, monthStart)
	if locationID != "" {
		newMemberships = newMemberships.Where("plans.location_id = ?", locationID)
	}
	if err := newMemberships.Count(&stats.NewMemberships).Error; err != nil {
		return nil, fmt.Errorf("failed to count new memberships: %w", err)
	}

	members := s.db.Model(&models.User{}).Where("gym_id = ? AND role = ?", gymID, models.RoleMember)
	if locationID != "" {
		members = members.Where("location_id = ?", locationID)
	}
	if err := members.Count(&stats.TotalMembers).Error; err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	if err := s.db.Model(&models.User{}).
		Where("gym_id = ? AND role = ?", gymID, models.RoleInstructor).
		Count(&stats.TotalInstructors).Error; err != nil {
		return nil, fmt.Errorf("failed to count instructors: %w", err)
	}

	plans := s.db.Model(&models.Plan{}).Where("gym_id = ?", gymID)
	if locationID != "" {
		plans = plans.Where("location_id = ?", locationID)
	}
	if err := plans.Count(&stats.TotalClassesScheduled).Error; err != nil {
		return nil, fmt.Errorf("failed to count plans: %w", err)
	}

	return stats, nil
}

func (s *Service) memberStats(userID string, prevMonthStart, monthStart, now time.Time) (*Stats, error) {
	stats := &Stats{}

	spent := s.db.Model(&models.Membership{}).
		Joins("JOIN plans ON plans.id = memberships.plan_id").
		Where("memberships.member_id = ?", userID)

	var err error
	if stats.PreviousMonthSpent, err = s.revenueBetween(spent, prevMonthStart, monthStart); err != nil {
		return nil, fmt.Errorf("failed to compute previous month spend: %w", err)
	}
	if stats.CurrentMonthSpent, err = s.revenueBetween(spent, monthStart, now); err != nil {
		return nil, fmt.Errorf("failed to compute current month spend: %w", err)
	}

	if err := s.db.Model(&models.Membership{}).
		Where("member_id = ?", userID).
		Count(&stats.TotalMemberships).Error; err != nil {
		return nil, fmt.Errorf("failed to count memberships: %w", err)
	}

	return stats, nil
}

func (s *Service) instructorStats(userID string, prevMonthStart, monthStart, now time.Time) (*Stats, error) {
	stats := &Stats{}

	earned := s.db.Model(&models.Membership{}).
		Joins("JOIN plans ON plans.id = memberships.plan_id").
		Where("plans.instructor_id = ?", userID)

	var err error
	if stats.PreviousMonthEarned, err = s.revenueBetween(earned, prevMonthStart, monthStart); err != nil {
		return nil, fmt.Errorf("failed to compute previous month earnings: %w", err)
	}
	if stats.CurrentMonthEarned, err = s.revenueBetween(earned, monthStart, now); err != nil {
		return nil, fmt.Errorf("failed to compute current month earnings: %w", err)
	}

	if err := s.db.Model(&models.Plan{}).
		Where("instructor_id = ?", userID).
		Count(&stats.TotalClasses).Error; err != nil {
		return nil, fmt.Errorf("failed to count classes: %w", err)
	}

	return stats, nil
}
