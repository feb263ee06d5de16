package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/soumyendra98/GymApp/internal/auth"
	"github.com/soumyendra98/GymApp/internal/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func seedGym(t *testing.T, db *gorm.DB) (gymID, memberID, instructorID string) {
	t.Helper()

	owner := &models.User{FirstName: "Ana", LastName: "Silva", Email: "owner@gym.test", Role: models.RoleAdmin}
	require.NoError(t, db.Create(owner).Error)

	gym := &models.Gym{Name: "Iron Temple", OwnerID: owner.ID}
	require.NoError(t, db.Create(gym).Error)

	owner.GymID = gym.ID
	require.NoError(t, db.Save(owner).Error)

	instructor := &models.User{FirstName: "Ben", LastName: "Kim", Email: "ben@gym.test", Role: models.RoleInstructor, GymID: gym.ID}
	require.NoError(t, db.Create(instructor).Error)

	member := &models.User{FirstName: "Cara", LastName: "Dune", Email: "cara@gym.test", Role: models.RoleMember, GymID: gym.ID}
	require.NoError(t, db.Create(member).Error)

	plan := &models.Plan{GymID: gym.ID, Name: "Strength", PriceCents: 5000, ScheduleType: models.ScheduleRecurring, InstructorID: instructor.ID}
	require.NoError(t, db.Create(plan).Error)

	start, end := models.PeriodFor(plan, time.Now())
	membership := &models.Membership{MemberID: member.ID, PlanID: plan.ID, Status: models.MembershipActive, StartDate: start, EndDate: end}
	require.NoError(t, db.Create(membership).Error)

	return gym.ID, member.ID, instructor.ID
}

func TestStatsFor_Admin(t *testing.T) {
	db := setupDB(t)
	gymID, _, _ := seedGym(t, db)

	svc := NewService(db, nil, zerolog.Nop())
	stats, err := svc.StatsFor(context.Background(), &auth.SessionData{Role: models.RoleAdmin, GymID: gymID}, "")
	require.NoError(t, err)

	require.Equal(t, int64(1), stats.TotalMembers)
	require.Equal(t, int64(1), stats.TotalInstructors)
	require.Equal(t, int64(1), stats.TotalClassesScheduled)
	require.Equal(t, int64(1), stats.NewMemberships)
	require.Equal(t, int64(5000), stats.CurrentMonthRevenue)
	require.Equal(t, int64(0), stats.PreviousMonthRevenue)
}

func TestStatsFor_MemberAndInstructor(t *testing.T) {
	db := setupDB(t)
	_, memberID, instructorID := seedGym(t, db)

	svc := NewService(db, nil, zerolog.Nop())

	memberStats, err := svc.StatsFor(context.Background(), &auth.SessionData{UserID: memberID, Role: models.RoleMember}, "")
	require.NoError(t, err)
	require.Equal(t, int64(5000), memberStats.CurrentMonthSpent)
	require.Equal(t, int64(1), memberStats.TotalMemberships)

	instructorStats, err := svc.StatsFor(context.Background(), &auth.SessionData{UserID: instructorID, Role: models.RoleInstructor}, "")
	require.NoError(t, err)
	require.Equal(t, int64(5000), instructorStats.CurrentMonthEarned)
	require.Equal(t, int64(1), instructorStats.TotalClasses)
}

func TestStatsFor_CacheHit(t *testing.T) {
	db := setupDB(t)
	gymID, memberID, _ := seedGym(t, db)

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	svc := NewService(db, cache, zerolog.Nop())
	sess := &auth.SessionData{Role: models.RoleAdmin, GymID: gymID}

	first, err := svc.StatsFor(context.Background(), sess, "")
	require.NoError(t, err)
	require.Equal(t, int64(1), first.TotalMembers)

	// Data changes under the cache; the cached payload still wins
	require.NoError(t, db.Delete(&models.User{}, "id = ?", memberID).Error)

	second, err := svc.StatsFor(context.Background(), sess, "")
	require.NoError(t, err)
	require.Equal(t, int64(1), second.TotalMembers)

	// After the TTL the stats are recomputed
	mr.FastForward(cacheTTL + time.Second)

	third, err := svc.StatsFor(context.Background(), sess, "")
	require.NoError(t, err)
	require.Equal(t, int64(0), third.TotalMembers)
}

func TestStatsFor_CacheKeyIsPerUserAndLocation(t *testing.T) {
	sessA := &auth.SessionData{UserID: "u1", GymID: "g1"}
	sessB := &auth.SessionData{UserID: "u2", GymID: "g1"}

	require.NotEqual(t, cacheKey(sessA, ""), cacheKey(sessB, ""))
	require.NotEqual(t, cacheKey(sessA, ""), cacheKey(sessA, "loc1"))
}
