package registration

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"esportfed/internal/api"
	"esportfed/internal/events"
	"esportfed/internal/member"
	"esportfed/internal/payment"
	"esportfed/internal/plan"

	"github.com/google/uuid"
)

var fixedNow = time.Date(2026, 3, 14, 16, 30, 0, 0, time.FixedZone("CET", 3600))

type fakePlans struct {
	plans []plan.Plan
}

func (f *fakePlans) LoadPlans(ctx context.Context, locale string) []plan.Plan {
	return f.plans
}

func (f *fakePlans) Find(ctx context.Context, locale, id string) (plan.Plan, bool) {
	for _, p := range f.plans {
		if p.ID == id {
			return p, true
		}
	}
	return plan.Plan{}, false
}

// memStore is an in-memory member store with one row per lower-cased email.
type memStore struct {
	mu        sync.Mutex
	rows      map[string]member.Member
	findErr   error
	insertErr error
	updateErr error
	finds     int
	inserts   int
	updates   int
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]member.Member{}}
}

func (s *memStore) FindByEmail(ctx context.Context, email string) (*member.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finds++
	if s.findErr != nil {
		return nil, s.findErr
	}
	m, ok := s.rows[strings.ToLower(email)]
	if !ok {
		return nil, member.ErrMemberNotFound
	}
	return &m, nil
}

func (s *memStore) PrivilegedInsert(ctx context.Context, n member.NewMember) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	if s.insertErr != nil {
		return uuid.Nil, s.insertErr
	}
	key := strings.ToLower(n.Email)
	if _, taken := s.rows[key]; taken {
		return uuid.Nil, member.ErrEmailTaken
	}
	id := uuid.New()
	s.rows[key] = member.Member{
		ID:              id,
		FirstName:       n.FirstName,
		LastName:        n.LastName,
		Email:           key,
		Phone:           n.Phone,
		Address:         n.Address,
		City:            n.City,
		Category:        n.Category,
		Status:          n.Status,
		PlanID:          n.PlanID,
		StartDate:       n.StartDate,
		EndDate:         n.EndDate,
		AgeCategory:     n.AgeCategory,
		ExperienceLevel: n.ExperienceLevel,
		Games:           n.Games,
		Motivation:      n.Motivation,
	}
	return id, nil
}

func (s *memStore) UpdateStatus(ctx context.Context, email string, from, to member.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	if s.updateErr != nil {
		return s.updateErr
	}
	m, ok := s.rows[strings.ToLower(email)]
	if !ok || m.Status != from {
		return member.ErrNoPendingMember
	}
	m.Status = to
	s.rows[strings.ToLower(email)] = m
	return nil
}

func (s *memStore) row(email string) (member.Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rows[strings.ToLower(email)]
	return m, ok
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

type fakeGateway struct {
	mu          sync.Mutex
	checkouts   []payment.CheckoutRequest
	checkoutErr error
	captureErr  error
	// captureEdit alters the settled result built from the last checkout.
	captureEdit func(*payment.Result)
}

func (g *fakeGateway) CreateCheckout(ctx context.Context, req payment.CheckoutRequest) (*payment.Checkout, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.checkouts = append(g.checkouts, req)
	if g.checkoutErr != nil {
		return nil, g.checkoutErr
	}
	return &payment.Checkout{ID: "pi_test", ClientSecret: "pi_test_secret", Amount: req.Amount, Currency: req.Currency}, nil
}

func (g *fakeGateway) Capture(ctx context.Context, checkoutID string) (*payment.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.captureErr != nil {
		return nil, g.captureErr
	}
	if len(g.checkouts) == 0 {
		return nil, payment.ErrPaymentFailed
	}

	last := g.checkouts[len(g.checkouts)-1]
	amount, _ := strconv.ParseInt(last.Amount, 10, 64)
	res := &payment.Result{
		ProviderPaymentID: checkoutID,
		Status:            payment.StatusSucceeded,
		Email:             last.Email,
		Reference:         last.Reference,
		Amount:            amount,
		Currency:          last.Currency,
	}
	if g.captureEdit != nil {
		g.captureEdit(res)
	}
	return res, nil
}

type sentEmail struct {
	kind  string
	email string
	ref   string
	until time.Time
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (n *fakeNotifier) SendMembershipConfirmation(ctx context.Context, name, email, planName, memberID string, validUntil time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentEmail{kind: "membership_confirmation", email: email, ref: memberID, until: validUntil})
	return n.err
}

func (n *fakeNotifier) SendPaymentReceived(ctx context.Context, name, email, planName, amount, currency, paymentID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentEmail{kind: "payment_received", email: email, ref: paymentID})
	return n.err
}

func (n *fakeNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, s := range n.sent {
		out = append(out, s.kind)
	}
	return out
}

type recordingPublisher struct {
	mu      sync.Mutex
	changes []events.StatusChange
}

func (p *recordingPublisher) Publish(ctx context.Context, change events.StatusChange) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, change)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type harness struct {
	plans     *fakePlans
	store     *memStore
	gateway   *fakeGateway
	notifier  *fakeNotifier
	publisher *recordingPublisher
}

func newHarness() *harness {
	return &harness{
		plans:     &fakePlans{plans: plan.DefaultPlans(api.LocaleFR)},
		store:     newMemStore(),
		gateway:   &fakeGateway{},
		notifier:  &fakeNotifier{},
		publisher: &recordingPublisher{},
	}
}

func (h *harness) deps() Deps {
	return Deps{
		Plans:         h.plans,
		Guard:         member.NewGuard(h.store),
		Members:       h.store,
		Gateway:       h.gateway,
		Notifier:      h.notifier,
		Publisher:     h.publisher,
		Currency:      "EUR",
		AdminContact:  "contact@esportfed.org",
		Clock:         func() time.Time { return fixedNow },
		NotifyTimeout: time.Second,
	}
}

func (h *harness) workflow() *Workflow {
	return NewWorkflow("session-1", api.LocaleFR, h.deps())
}

func validRaw(planID, email string) RawInput {
	return RawInput{
		PlanID:          planID,
		FirstName:       "Camille",
		LastName:        "Moreau",
		Email:           email,
		Phone:           "0612345678",
		Address:         "12 rue des Lilas",
		City:            "Lyon",
		ExperienceLevel: "intermediate",
		Games:           []string{"Valorant", "Rocket League"},
		Motivation:      strings.Repeat("Je veux progresser en compétition. ", 2),
		AcceptTerms:     true,
	}
}

func requireKind(t *testing.T, err error, kind ErrorKind) *WorkflowError {
	t.Helper()
	var wfErr *WorkflowError
	if !errors.As(err, &wfErr) {
		t.Fatalf("expected WorkflowError(%s), got %v", kind, err)
	}
	if wfErr.Kind != kind {
		t.Fatalf("expected kind %s, got %s", kind, wfErr.Kind)
	}
	return wfErr
}
