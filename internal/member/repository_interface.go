package member

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Member, error)
	PrivilegedInsert(ctx context.Context, m NewMember) (uuid.UUID, error)
	UpdateStatus(ctx context.Context, email string, from, to Status) error
	List(ctx context.Context, f Filter) ([]Member, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Member, error)
	ExpireEnded(ctx context.Context, today time.Time) ([]Member, error)
}
