package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/soumyendra98/GymApp/internal/email"
	"github.com/soumyendra98/GymApp/internal/models"
	"github.com/soumyendra98/GymApp/internal/tasks"
)

// recordingSender captures sent messages for assertions
type recordingSender struct {
	messages []email.Message
	err      error
}

func (s *recordingSender) Send(_ context.Context, msg email.Message) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.messages = append(s.messages, msg)
	return "msg-1", nil
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func TestHandleInviteEmail(t *testing.T) {
	db := setupDB(t)

	gym := &models.Gym{Name: "Iron Temple", OwnerID: "owner-1"}
	require.NoError(t, db.Create(gym).Error)

	user := &models.User{
		FirstName: "Dee", LastName: "Nova", Email: "dee@gym.test",
		Role: models.RoleMember, Status: models.UserStatusInvited, GymID: gym.ID,
	}
	require.NoError(t, db.Create(user).Error)

	task, err := tasks.NewInviteEmailTask(user.ID)
	require.NoError(t, err)

	sender := &recordingSender{}
	require.NoError(t, HandleInviteEmail(context.Background(), task, db, sender, zerolog.Nop()))

	require.Len(t, sender.messages, 1)
	msg := sender.messages[0]
	require.Equal(t, []string{"dee@gym.test"}, msg.To)
	require.Contains(t, msg.Subject, "Iron Temple")
	require.Contains(t, msg.HTML, "a member")
}

func TestHandleInviteEmail_MissingUserIsNotRetried(t *testing.T) {
	db := setupDB(t)

	task, err := tasks.NewInviteEmailTask("gone")
	require.NoError(t, err)

	sender := &recordingSender{}
	require.NoError(t, HandleInviteEmail(context.Background(), task, db, sender, zerolog.Nop()))
	require.Empty(t, sender.messages)
}

func TestHandleInviteEmail_ActiveUserSkipped(t *testing.T) {
	db := setupDB(t)

	user := &models.User{
		FirstName: "Ana", LastName: "Silva", Email: "ana@gym.test",
		Role: models.RoleMember, Status: models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)

	task, err := tasks.NewInviteEmailTask(user.ID)
	require.NoError(t, err)

	sender := &recordingSender{}
	require.NoError(t, HandleInviteEmail(context.Background(), task, db, sender, zerolog.Nop()))
	require.Empty(t, sender.messages)
}

func TestHandleInviteEmail_SendFailureIsRetried(t *testing.T) {
	db := setupDB(t)

	user := &models.User{
		FirstName: "Dee", LastName: "Nova", Email: "dee@gym.test",
		Role: models.RoleMember, Status: models.UserStatusInvited,
	}
	require.NoError(t, db.Create(user).Error)

	task, err := tasks.NewInviteEmailTask(user.ID)
	require.NoError(t, err)

	sender := &recordingSender{err: errors.New("rate limited")}
	err = HandleInviteEmail(context.Background(), task, db, sender, zerolog.Nop())
	require.Error(t, err, "send failures must propagate so asynq retries")
}

func TestHandleMembershipExpirySweep(t *testing.T) {
	db := setupDB(t)
	now := time.Now()

	lapsed := &models.Membership{
		MemberID: "m1", PlanID: "p1", Status: models.MembershipActive,
		StartDate: now.AddDate(0, -2, 0), EndDate: now.AddDate(0, -1, 0),
	}
	current := &models.Membership{
		MemberID: "m2", PlanID: "p1", Status: models.MembershipActive,
		StartDate: now, EndDate: now.AddDate(0, 1, 0),
	}
	cancelled := &models.Membership{
		MemberID: "m3", PlanID: "p1", Status: models.MembershipCancelled,
		StartDate: now.AddDate(0, -2, 0), EndDate: now.AddDate(0, -1, 0),
	}
	for _, m := range []*models.Membership{lapsed, current, cancelled} {
		require.NoError(t, db.Create(m).Error)
	}

	task := tasks.NewMembershipExpirySweepTask()
	require.NoError(t, HandleMembershipExpirySweep(context.Background(), task, db, zerolog.Nop()))

	var got models.Membership
	require.NoError(t, db.First(&got, "id = ?", lapsed.ID).Error)
	require.Equal(t, models.MembershipExpired, got.Status)

	got = models.Membership{}
	require.NoError(t, db.First(&got, "id = ?", current.ID).Error)
	require.Equal(t, models.MembershipActive, got.Status)

	// Cancelled memberships are left alone
	got = models.Membership{}
	require.NoError(t, db.First(&got, "id = ?", cancelled.ID).Error)
	require.Equal(t, models.MembershipCancelled, got.Status)
}
