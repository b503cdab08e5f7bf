package registration

import (
	"time"

	"esportfed/internal/member"
	"esportfed/internal/plan"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// DefaultDoneGrace is how long a finished workflow stays readable.
const DefaultDoneGrace = 15 * time.Minute

// Sessions holds the live workflows, one per browser submission. Workflows
// waiting for payment never expire.
type Sessions struct {
	items *cache.Cache
	deps  Deps
	grace time.Duration
}

func NewSessions(deps Deps, grace time.Duration) *Sessions {
	if grace <= 0 {
		grace = DefaultDoneGrace
	}
	return &Sessions{
		items: cache.New(cache.NoExpiration, time.Minute),
		deps:  deps,
		grace: grace,
	}
}

func (s *Sessions) Create(locale string) *Workflow {
	w := NewWorkflow(uuid.NewString(), locale, s.deps)
	s.items.Set(w.ID(), w, cache.NoExpiration)
	return w
}

func (s *Sessions) Get(id string) (*Workflow, error) {
	v, ok := s.items.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return v.(*Workflow), nil
}

// Settle puts a workflow that reached done, or failed without writing
// anything, on the grace timer. Any other workflow is kept indefinitely.
func (s *Sessions) Settle(w *Workflow) {
	snap := w.Snapshot()
	switch {
	case snap.State == StateDone, snap.State == StateError && snap.Error.Kind.resubmittable():
		s.items.Set(w.ID(), w, s.grace)
	default:
		s.items.Set(w.ID(), w, cache.NoExpiration)
	}
}

// FindAwaitingPayment returns the workflow that can take a payment for email.
func (s *Sessions) FindAwaitingPayment(email string) (*Workflow, bool) {
	email = member.NormalizeEmail(email)
	for _, item := range s.items.Items() {
		w := item.Object.(*Workflow)
		snap := w.Snapshot()
		if snap.Email != email {
			continue
		}
		if snap.State == StateAwaitingPayment || (snap.State == StateError && snap.Error.Kind == KindPayment) {
			return w, true
		}
	}
	return nil, false
}

// Resume registers a workflow rebuilt from a pending member row.
func (s *Sessions) Resume(locale string, m member.Member, p plan.Plan) *Workflow {
	w := Resume(uuid.NewString(), locale, s.deps, m, p)
	s.items.Set(w.ID(), w, cache.NoExpiration)
	return w
}

func (s *Sessions) Remove(id string) {
	s.items.Delete(id)
}

func (s *Sessions) Len() int {
	return s.items.ItemCount()
}
