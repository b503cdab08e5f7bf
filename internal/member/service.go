package member

import (
	"context"
	"errors"
	"time"

	"esportfed/internal/events"
	"esportfed/internal/logger"
	"esportfed/internal/metrics"

	"github.com/google/uuid"
)

var ErrInvalidStatus = errors.New("invalid member status")

// Service backs the operator member screens and the expiry job.
type Service interface {
	List(ctx context.Context, f Filter) ([]Member, error)
	Get(ctx context.Context, id uuid.UUID) (*Member, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status Status) (*Member, error)
	ExpireEnded(ctx context.Context, now time.Time) (int, error)
}

type service struct {
	repo      Repository
	publisher events.Publisher
}

func NewService(repo Repository, publisher events.Publisher) Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &service{repo: repo, publisher: publisher}
}

func (s *service) List(ctx context.Context, f Filter) ([]Member, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.List(ctx, f)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Member, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ChangeStatus(ctx context.Context, id uuid.UUID, status Status) (*Member, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	logger.Info("member status changed by operator",
		"member_id", id.String(), "from", string(before.Status), "to", string(status))

	if before.Status != StatusActive && status == StatusActive {
		metrics.RecordActivation(string(updated.Category))
	}

	s.publish(ctx, updated, before.Status, events.ReasonOperator)
	return updated, nil
}

// ExpireEnded expires memberships whose end date is before the UTC day of now.
func (s *service) ExpireEnded(ctx context.Context, now time.Time) (int, error) {
	today, _ := MembershipPeriod(now)

	expired, err := s.repo.ExpireEnded(ctx, today)
	if err != nil {
		return 0, err
	}

	for i := range expired {
		s.publish(ctx, &expired[i], StatusActive, events.ReasonExpiry)
	}

	metrics.RecordExpired(int64(len(expired)))
	return len(expired), nil
}

func (s *service) publish(ctx context.Context, m *Member, from Status, reason string) {
	err := s.publisher.Publish(ctx, events.StatusChange{
		MemberID: m.ID.String(),
		Email:    m.Email,
		Category: string(m.Category),
		From:     string(from),
		To:       string(m.Status),
		Reason:   reason,
	})
	if err != nil {
		logger.Warn("member status change not published", "member_id", m.ID.String(), "error", err)
	}
}
