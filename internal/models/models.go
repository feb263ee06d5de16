package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// Role determines visible navigation and permitted operations for a user
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleInstructor Role = "INSTRUCTOR"
	RoleMember     Role = "MEMBER"
)

// UserStatus tracks the lifecycle of an account
type UserStatus string

const (
	UserStatusActive  UserStatus = "ACTIVE"
	UserStatusInvited UserStatus = "INVITED"
)

// ScheduleType describes how a plan's classes recur
type ScheduleType string

const (
	ScheduleRecurring    ScheduleType = "RECURRING"
	ScheduleNonRecurring ScheduleType = "NON_RECURRING"
)

// MembershipStatus tracks the lifecycle of a membership
type MembershipStatus string

const (
	MembershipActive    MembershipStatus = "ACTIVE"
	MembershipExpired   MembershipStatus = "EXPIRED"
	MembershipCancelled MembershipStatus = "CANCELLED"
)

// ActivityType classifies activity log entries
type ActivityType string

const (
	ActivityCheckIn  ActivityType = "CHECK_IN"
	ActivityCheckOut ActivityType = "CHECK_OUT"
	ActivityLog      ActivityType = "LOG"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// Config is the global configuration row for a deployment.
// This is a singleton model (only one row should exist).
type Config struct {
	BaseModel
	// Auto-generated during gym onboarding (64 hex chars)
	JWTSecret string `json:"-" gorm:"type:varchar(64);not null"`

	// Cron expression for the membership expiry sweep, e.g. "0 3 * * *".
	// Empty disables the sweep.
	ExpirySweepSchedule string     `json:"expirySweepSchedule"`
	LastSweepAt         *time.Time `json:"lastSweepAt"`
	NextSweepAt         *time.Time `json:"nextSweepAt"`
}

// Gym represents a gym business onboarded onto the platform
type Gym struct {
	BaseModel
	Name      string    `json:"name" gorm:"not null"`
	OwnerID   string    `json:"ownerId" gorm:"not null"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	Owner     *User      `json:"owner,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
	Locations []Location `json:"locations,omitempty" gorm:"foreignKey:GymID"`
}

// Location is a physical gym location
type Location struct {
	BaseModel
	GymID   string `json:"gymId" gorm:"not null;index"`
	Name    string `json:"name" gorm:"not null"`
	Address string `json:"address"`
}

// User represents an account: gym admins, instructors and members
type User struct {
	BaseModel
	FirstName    string     `json:"firstName" gorm:"not null"`
	LastName     string     `json:"lastName" gorm:"not null"`
	Email        string     `json:"email" gorm:"unique;not null"`
	Phone        string     `json:"phone"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role" gorm:"type:varchar(16);not null;default:'MEMBER'"`
	Status       UserStatus `json:"status" gorm:"type:varchar(16);not null;default:'ACTIVE'"`
	GymID        string     `json:"gymId" gorm:"index"`
	LocationID   string     `json:"locationId" gorm:"index"`
	UpdatedAt    time.Time  `json:"updatedAt" gorm:"autoUpdateTime"`

	Location *Location `json:"location,omitempty" gorm:"foreignKey:LocationID;references:ID;constraint:OnDelete:SET NULL"`
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Plan is a class/membership plan offered by a gym
type Plan struct {
	BaseModel
	GymID        string       `json:"gymId" gorm:"not null;index"`
	Name         string       `json:"name" gorm:"not null"`
	Description  string       `json:"description"`
	PriceCents   int64        `json:"priceCents" gorm:"not null"`
	ScheduleType ScheduleType `json:"scheduleType" gorm:"type:varchar(16);not null;default:'RECURRING'"`
	ScheduleDays string       `json:"scheduleDays"` // e.g. "MON,WED,FRI"
	ScheduleTime string       `json:"scheduleTime"` // e.g. "18:00"
	DurationDays int          `json:"durationDays" gorm:"not null;default:30"`
	InstructorID string       `json:"instructorId" gorm:"index"`
	LocationID   string       `json:"locationId" gorm:"index"`
	UpdatedAt    time.Time    `json:"updatedAt" gorm:"autoUpdateTime"`

	Instructor *User     `json:"instructor,omitempty" gorm:"foreignKey:InstructorID;references:ID;constraint:OnDelete:SET NULL"`
	Location   *Location `json:"location,omitempty" gorm:"foreignKey:LocationID;references:ID;constraint:OnDelete:SET NULL"`
}

// Membership enrolls a member into a plan for a period
type Membership struct {
	BaseModel
	MemberID     string           `json:"memberId" gorm:"not null;index"`
	PlanID       string           `json:"planId" gorm:"not null;index"`
	Status       MembershipStatus `json:"status" gorm:"type:varchar(16);not null;default:'ACTIVE'"`
	StartDate    time.Time        `json:"startDate" gorm:"not null"`
	EndDate      time.Time        `json:"endDate" gorm:"not null"`
	EnrolledByID string           `json:"enrolledById"`
	UpdatedAt    time.Time        `json:"updatedAt" gorm:"autoUpdateTime"`

	Member *User `json:"member,omitempty" gorm:"foreignKey:MemberID;references:ID;constraint:OnDelete:CASCADE"`
	Plan   *Plan `json:"plan,omitempty" gorm:"foreignKey:PlanID;references:ID;constraint:OnDelete:CASCADE"`
}

// PeriodFor computes the membership window starting at start for the given plan.
// Recurring plans run for a calendar month; non-recurring plans run for the
// plan's configured duration.
func PeriodFor(plan *Plan, start time.Time) (time.Time, time.Time) {
	if plan.ScheduleType == ScheduleRecurring {
		return start, start.AddDate(0, 1, 0)
	}
	days := plan.DurationDays
	if days <= 0 {
		days = 30
	}
	return start, start.AddDate(0, 0, days)
}

// Activity is a single entry in a gym's activity log: member check-ins,
// check-outs and workout logs
type Activity struct {
	BaseModel
	GymID           string       `json:"gymId" gorm:"not null;index"`
	UserID          string       `json:"userId" gorm:"not null;index"`
	MembershipID    string       `json:"membershipId" gorm:"index"`
	Type            ActivityType `json:"type" gorm:"type:varchar(16);not null"`
	EquipmentType   string       `json:"equipmentType"`
	Description     string       `json:"description"`
	DurationMinutes int          `json:"durationMinutes"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Config{},
		&Gym{},
		&Location{},
		&User{},
		&Plan{},
		&Membership{},
		&Activity{},
	)
}
