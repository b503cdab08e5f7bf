package member

import (
	"context"
	"errors"
	"strings"
)

type AvailabilityStatus int

const (
	Available AvailabilityStatus = iota
	AlreadyRegistered
	StoreError
)

func (s AvailabilityStatus) String() string {
	switch s {
	case Available:
		return "available"
	case AlreadyRegistered:
		return "already_registered"
	default:
		return "store_error"
	}
}

// Availability is the outcome of a duplicate check. Existing is set for
// AlreadyRegistered, Err for StoreError.
type Availability struct {
	Status   AvailabilityStatus
	Existing *Member
	Err      error
}

type EmailFinder interface {
	FindByEmail(ctx context.Context, email string) (*Member, error)
}

type Guard struct {
	members EmailFinder
}

func NewGuard(members EmailFinder) *Guard {
	return &Guard{members: members}
}

func (g *Guard) CheckEmailAvailable(ctx context.Context, email string) Availability {
	existing, err := g.members.FindByEmail(ctx, NormalizeEmail(email))
	switch {
	case err == nil:
		return Availability{Status: AlreadyRegistered, Existing: existing}
	case errors.Is(err, ErrMemberNotFound):
		return Availability{Status: Available}
	default:
		return Availability{Status: StoreError, Err: err}
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
