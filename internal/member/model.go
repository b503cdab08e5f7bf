package member

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Category string

const (
	CategoryPlayer  Category = "player"
	CategoryClub    Category = "club"
	CategoryPartner Category = "partner"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryPlayer, CategoryClub, CategoryPartner:
		return true
	}
	return false
}

// RequiresPayment reports whether members of this category start pending.
func (c Category) RequiresPayment() bool {
	return c != CategoryPlayer
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusExpired   Status = "expired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusSuspended, StatusExpired:
		return true
	}
	return false
}

// MembershipLength is the span between membership start and end dates.
const MembershipLength = 365 * 24 * time.Hour

type Member struct {
	ID              uuid.UUID      `db:"id" json:"id"`
	FirstName       string         `db:"first_name" json:"first_name"`
	LastName        string         `db:"last_name" json:"last_name"`
	Email           string         `db:"email" json:"email"`
	Phone           string         `db:"phone" json:"phone"`
	Address         string         `db:"address" json:"address"`
	City            string         `db:"city" json:"city"`
	Category        Category       `db:"member_category" json:"category"`
	Status          Status         `db:"status" json:"status"`
	PlanID          string         `db:"plan_id" json:"plan_id"`
	StartDate       time.Time      `db:"membership_start" json:"membership_start"`
	EndDate         time.Time      `db:"membership_end" json:"membership_end"`
	AgeCategory     *string        `db:"age_category" json:"age_category,omitempty"`
	ExperienceLevel string         `db:"experience_level" json:"experience_level"`
	Games           pq.StringArray `db:"games" json:"games"`
	Motivation      string         `db:"motivation" json:"motivation,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// NewMember carries the columns written on registration.
type NewMember struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Address         string
	City            string
	Category        Category
	Status          Status
	PlanID          string
	StartDate       time.Time
	EndDate         time.Time
	AgeCategory     *string
	ExperienceLevel string
	Games           []string
	Motivation      string
}

// MembershipPeriod returns the UTC date-only start for now and the matching end date.
func MembershipPeriod(now time.Time) (start, end time.Time) {
	u := now.UTC()
	start = time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(MembershipLength)
}

type Filter struct {
	Status   Status
	Category Category
	Search   string
	Limit    uint64
	Offset   uint64
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending active suspended expired"`
}
