package registration

import (
	"context"
	"errors"
	"sync"
	"time"

	"esportfed/internal/api"
	"esportfed/internal/events"
	"esportfed/internal/logger"
	"esportfed/internal/member"
	"esportfed/internal/metrics"
	"esportfed/internal/payment"
	"esportfed/internal/plan"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type State string

const (
	StateIdle              State = "idle"
	StateValidating        State = "validating"
	StateCheckingDuplicate State = "checking_duplicate"
	StateInserting         State = "inserting"
	StateActivatedFree     State = "activated_free"
	StateAwaitingPayment   State = "awaiting_payment"
	StateActivated         State = "activated"
	StateNotifyingEmail    State = "notifying_email"
	StateDone              State = "done"
	StateError             State = "error"
)

const defaultNotifyTimeout = 30 * time.Second

var tracer = otel.Tracer("esportfed/registration")

type PlanSource interface {
	LoadPlans(ctx context.Context, locale string) []plan.Plan
}

type AvailabilityChecker interface {
	CheckEmailAvailable(ctx context.Context, email string) member.Availability
}

// MemberWriter is the privileged write side of the member store.
type MemberWriter interface {
	PrivilegedInsert(ctx context.Context, m member.NewMember) (uuid.UUID, error)
	UpdateStatus(ctx context.Context, email string, from, to member.Status) error
}

type Notifier interface {
	SendMembershipConfirmation(ctx context.Context, name, email, planName, memberID string, validUntil time.Time) error
	SendPaymentReceived(ctx context.Context, name, email, planName, amount, currency, paymentID string) error
}

// Deps are the collaborators a workflow talks to.
type Deps struct {
	Plans         PlanSource
	Guard         AvailabilityChecker
	Members       MemberWriter
	Gateway       payment.Gateway
	Notifier      Notifier
	Publisher     events.Publisher
	Currency      string
	AdminContact  string
	Clock         func() time.Time
	NotifyTimeout time.Duration
}

func (d Deps) withDefaults() Deps {
	if d.Publisher == nil {
		d.Publisher = events.NopPublisher{}
	}
	if d.Gateway == nil {
		d.Gateway = payment.Disabled()
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.NotifyTimeout <= 0 {
		d.NotifyTimeout = defaultNotifyTimeout
	}
	return d
}

// Workflow drives one registration from form submission to activation.
// All operations are serialized; state is the only source of truth.
type Workflow struct {
	mu     sync.Mutex
	id     string
	locale string
	deps   Deps

	state     State
	err       *WorkflowError
	input     *RegistrationInput
	category  member.Category
	memberID  uuid.UUID
	endDate   time.Time
	checkout  *payment.Checkout
	paymentID string
	updatedAt time.Time

	background sync.WaitGroup
}

func NewWorkflow(id, locale string, deps Deps) *Workflow {
	deps = deps.withDefaults()
	return &Workflow{
		id:        id,
		locale:    locale,
		deps:      deps,
		state:     StateIdle,
		updatedAt: deps.Clock(),
	}
}

// Resume rebuilds a workflow waiting for payment from a pending member row,
// so a provider callback can still activate it after the session was lost.
func Resume(id, locale string, deps Deps, m member.Member, p plan.Plan) *Workflow {
	w := NewWorkflow(id, locale, deps)
	w.input = &RegistrationInput{
		Plan:            p,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		Email:           member.NormalizeEmail(m.Email),
		Phone:           m.Phone,
		Address:         m.Address,
		City:            m.City,
		AgeCategory:     m.AgeCategory,
		ExperienceLevel: m.ExperienceLevel,
		Games:           m.Games,
		Motivation:      m.Motivation,
	}
	w.category = m.Category
	w.memberID = m.ID
	w.endDate = m.EndDate
	w.state = StateAwaitingPayment
	logger.Info("registration resumed", "session_id", id, "member_id", m.ID.String())
	return w
}

func (w *Workflow) ID() string { return w.id }

type ErrorView struct {
	Kind    ErrorKind                 `json:"kind"`
	Message string                    `json:"message"`
	Fields  map[string]api.FieldError `json:"fields,omitempty"`
}

// Snapshot is a consistent read of a workflow.
type Snapshot struct {
	SessionID        string          `json:"session_id"`
	State            State           `json:"state"`
	Error            *ErrorView      `json:"error,omitempty"`
	MemberID         string          `json:"member_id,omitempty"`
	Email            string          `json:"email,omitempty"`
	Category         member.Category `json:"category,omitempty"`
	PlanID           string          `json:"plan_id,omitempty"`
	PlanName         string          `json:"plan_name,omitempty"`
	Amount           string          `json:"amount,omitempty"`
	Currency         string          `json:"currency,omitempty"`
	CheckoutRequired bool            `json:"checkout_required"`
	CheckoutID       string          `json:"checkout_id,omitempty"`
	PaymentID        string          `json:"payment_id,omitempty"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := Snapshot{
		SessionID: w.id,
		State:     w.state,
		PaymentID: w.paymentID,
		UpdatedAt: w.updatedAt,
	}
	if w.err != nil {
		snap.Error = &ErrorView{Kind: w.err.Kind, Message: w.err.Message, Fields: w.err.Fields}
	}
	if w.memberID != uuid.Nil {
		snap.MemberID = w.memberID.String()
	}
	if w.input != nil {
		snap.Email = w.input.Email
		snap.Category = w.category
		snap.PlanID = w.input.Plan.ID
		snap.PlanName = w.input.Plan.Name
		snap.Amount = payment.FormatAmount(w.input.Plan.Price)
		snap.Currency = w.deps.Currency
		snap.CheckoutRequired = w.category.RequiresPayment() && w.input.Plan.Price > 0
	}
	if w.checkout != nil {
		snap.CheckoutID = w.checkout.ID
	}
	return snap
}

// Submit validates raw, checks the email, inserts the member and either
// activates it right away or leaves it waiting for payment.
func (w *Workflow) Submit(ctx context.Context, raw RawInput) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case w.state == StateIdle:
	case w.state == StateError && w.err.Kind.resubmittable():
		w.err = nil
	default:
		return ErrInvalidTransition
	}

	ctx, span := tracer.Start(ctx, "registration.submit", trace.WithAttributes(attribute.String("session.id", w.id)))
	defer span.End()

	w.enter(StateValidating)
	in, verr := Validate(raw, w.deps.Plans.LoadPlans(ctx, w.locale), w.locale)
	if verr != nil {
		return w.fail(span, KindValidation, verr.Fields, verr)
	}
	w.input = &in
	w.category = plan.ResolveCategory(in.Plan)
	span.SetAttributes(attribute.String("member.category", string(w.category)), attribute.String("plan.id", in.Plan.ID))

	w.enter(StateCheckingDuplicate)
	switch avail := w.deps.Guard.CheckEmailAvailable(ctx, in.Email); avail.Status {
	case member.AlreadyRegistered:
		logger.Info("registration rejected, email already registered",
			"session_id", w.id, "existing_category", string(avail.Existing.Category), "existing_status", string(avail.Existing.Status))
		metrics.RecordRegistration(string(w.category), "duplicate")
		return w.fail(span, KindDuplicate, nil, member.ErrEmailTaken)
	case member.StoreError:
		return w.fail(span, KindConnectivity, nil, avail.Err)
	}

	w.enter(StateInserting)
	status := member.StatusActive
	if w.category.RequiresPayment() {
		status = member.StatusPending
	}
	start, end := member.MembershipPeriod(w.deps.Clock())
	id, err := w.deps.Members.PrivilegedInsert(ctx, member.NewMember{
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Email:           in.Email,
		Phone:           in.Phone,
		Address:         in.Address,
		City:            in.City,
		Category:        w.category,
		Status:          status,
		PlanID:          in.Plan.ID,
		StartDate:       start,
		EndDate:         end,
		AgeCategory:     in.AgeCategory,
		ExperienceLevel: in.ExperienceLevel,
		Games:           in.Games,
		Motivation:      in.Motivation,
	})
	if err != nil {
		if errors.Is(err, member.ErrEmailTaken) {
			metrics.RecordRegistration(string(w.category), "duplicate")
			return w.fail(span, KindDuplicate, nil, err)
		}
		return w.fail(span, KindPersistence, nil, err)
	}
	w.memberID = id
	w.endDate = end
	w.publish(ctx, "", status, events.ReasonRegistered)

	if status == member.StatusActive {
		metrics.RecordRegistration(string(w.category), "activated")
		metrics.RecordActivation(string(w.category))
		w.enter(StateActivatedFree)
		w.finish(ctx, "")
		return nil
	}

	metrics.RecordRegistration(string(w.category), "pending")
	w.enter(StateAwaitingPayment)
	return nil
}

// StartCheckout asks the gateway for a checkout of the plan price. After a
// payment error it re-offers the payment step without revalidating.
func (w *Workflow) StartCheckout(ctx context.Context) (*payment.Checkout, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.payable() {
		return nil, ErrInvalidTransition
	}
	if w.input.Plan.Price <= 0 {
		return nil, ErrNothingToCharge
	}

	ctx, span := tracer.Start(ctx, "registration.checkout", trace.WithAttributes(attribute.String("session.id", w.id)))
	defer span.End()

	if w.state == StateError {
		w.err = nil
		w.enter(StateAwaitingPayment)
	}

	checkout, err := w.deps.Gateway.CreateCheckout(ctx, payment.CheckoutRequest{
		Amount:      payment.FormatAmount(w.input.Plan.Price),
		Currency:    w.deps.Currency,
		Email:       w.input.Email,
		Reference:   w.memberID.String(),
		Description: w.input.Plan.Name,
	})
	if err != nil {
		metrics.RecordPayment("checkout_error")
		return nil, w.fail(span, KindPayment, nil, err)
	}

	w.checkout = checkout
	logger.Info("checkout created", "session_id", w.id, "checkout_id", checkout.ID, "amount", checkout.Amount)
	return checkout, nil
}

// CompleteCheckout captures an approved checkout. A payment the provider has
// not settled yet returns payment.ErrPaymentPending and changes nothing.
func (w *Workflow) CompleteCheckout(ctx context.Context, checkoutID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateAwaitingPayment {
		return ErrInvalidTransition
	}
	if checkoutID == "" {
		if w.checkout == nil {
			return ErrNoCheckout
		}
		checkoutID = w.checkout.ID
	}

	ctx, span := tracer.Start(ctx, "registration.capture", trace.WithAttributes(attribute.String("checkout.id", checkoutID)))
	defer span.End()

	result, err := w.deps.Gateway.Capture(ctx, checkoutID)
	if errors.Is(err, payment.ErrPaymentPending) {
		return err
	}
	if err != nil {
		metrics.RecordPayment("failed")
		return w.fail(span, KindPayment, nil, err)
	}
	if result.Reference != w.memberID.String() || result.Amount != w.input.Plan.Price {
		logger.Warn("captured checkout ignored, reference or amount mismatch",
			"session_id", w.id, "checkout_id", checkoutID, "reference", result.Reference, "amount", result.Amount)
		return ErrCheckoutMismatch
	}
	return w.activate(ctx, span, *result)
}

// PaymentSucceeded activates the pending member for a settled payment
// carrying the registered email.
func (w *Workflow) PaymentSucceeded(ctx context.Context, result payment.Result) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.payable() {
		return ErrInvalidTransition
	}

	ctx, span := tracer.Start(ctx, "registration.payment_succeeded", trace.WithAttributes(attribute.String("session.id", w.id)))
	defer span.End()
	return w.activate(ctx, span, result)
}

// PaymentFailed records a provider failure or a cancellation. The member
// stays pending and StartCheckout may be called again.
func (w *Workflow) PaymentFailed(ctx context.Context, cause error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.payable() {
		return ErrInvalidTransition
	}
	if cause == nil {
		cause = payment.ErrPaymentFailed
	}

	_, span := tracer.Start(ctx, "registration.payment_failed", trace.WithAttributes(attribute.String("session.id", w.id)))
	defer span.End()

	metrics.RecordPayment("failed")
	return w.fail(span, KindPayment, nil, cause)
}

// Reset clears a finished or recoverable workflow back to an empty form.
func (w *Workflow) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case w.state == StateDone, w.state == StateIdle:
	case w.state == StateError && w.err.Kind != KindActivation:
	default:
		return ErrInvalidTransition
	}

	w.err = nil
	w.input = nil
	w.category = ""
	w.memberID = uuid.Nil
	w.endDate = time.Time{}
	w.checkout = nil
	w.paymentID = ""
	w.enter(StateIdle)
	return nil
}

// WaitNotifications blocks until detached side effects have returned.
func (w *Workflow) WaitNotifications() {
	w.background.Wait()
}

func (w *Workflow) payable() bool {
	if w.state == StateAwaitingPayment {
		return true
	}
	return w.state == StateError && w.err.Kind == KindPayment
}

func (w *Workflow) activate(ctx context.Context, span trace.Span, result payment.Result) error {
	if member.NormalizeEmail(result.Email) != w.input.Email {
		logger.Warn("payment result ignored, email mismatch",
			"session_id", w.id, "provider_payment_id", result.ProviderPaymentID)
		return ErrEmailMismatch
	}

	if err := w.deps.Members.UpdateStatus(ctx, w.input.Email, member.StatusPending, member.StatusActive); err != nil {
		logger.Error("member activation failed after payment",
			"session_id", w.id, "member_id", w.memberID.String(), "provider_payment_id", result.ProviderPaymentID, "error", err)
		return w.fail(span, KindActivation, nil, err)
	}

	w.err = nil
	w.paymentID = result.ProviderPaymentID
	metrics.RecordPayment("succeeded")
	metrics.RecordActivation(string(w.category))
	w.enter(StateActivated)
	w.publish(ctx, member.StatusPending, member.StatusActive, events.ReasonPayment)
	w.finish(ctx, result.ProviderPaymentID)
	return nil
}

// finish dispatches the emails in the background and completes the workflow.
func (w *Workflow) finish(ctx context.Context, paymentID string) {
	w.enter(StateNotifyingEmail)

	in := *w.input
	memberID := w.memberID.String()
	endDate := w.endDate
	w.detach(ctx, "membership_confirmation", func(ctx context.Context) error {
		return countDispatch("membership_confirmation",
			w.deps.Notifier.SendMembershipConfirmation(ctx, in.FullName(), in.Email, in.Plan.Name, memberID, endDate))
	})
	if paymentID != "" {
		amount := payment.FormatAmount(in.Plan.Price)
		currency := w.deps.Currency
		w.detach(ctx, "payment_received", func(ctx context.Context) error {
			return countDispatch("payment_received",
				w.deps.Notifier.SendPaymentReceived(ctx, in.FullName(), in.Email, in.Plan.Name, amount, currency, paymentID))
		})
	}

	w.enter(StateDone)
}

func countDispatch(emailType string, err error) error {
	if err != nil {
		metrics.RecordEmail(emailType, "dispatch_failed")
		return err
	}
	metrics.RecordEmail(emailType, "queued")
	return nil
}

func (w *Workflow) publish(ctx context.Context, from, to member.Status, reason string) {
	change := events.StatusChange{
		MemberID:   w.memberID.String(),
		Email:      w.input.Email,
		Category:   string(w.category),
		From:       string(from),
		To:         string(to),
		Reason:     reason,
		OccurredAt: w.deps.Clock().UTC(),
	}
	w.detach(ctx, "status_change", func(ctx context.Context) error {
		return w.deps.Publisher.Publish(ctx, change)
	})
}

// detach runs fn outside the request lifetime. Its outcome is logged and
// counted, never fed back into the workflow.
func (w *Workflow) detach(ctx context.Context, task string, fn func(context.Context) error) {
	parent := context.WithoutCancel(ctx)
	timeout := w.deps.NotifyTimeout
	w.background.Add(1)
	go func() {
		defer w.background.Done()
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			logger.Warn("registration side effect failed", "session_id", w.id, "task", task, "error", err)
			return
		}
		logger.Debug("registration side effect done", "session_id", w.id, "task", task)
	}()
}

func (w *Workflow) enter(s State) {
	prev := w.state
	w.state = s
	w.updatedAt = w.deps.Clock()
	metrics.RecordTransition(string(s))
	logger.Info("registration transition", "session_id", w.id, "from", string(prev), "to", string(s))
}

func (w *Workflow) fail(span trace.Span, kind ErrorKind, fields map[string]api.FieldError, cause error) error {
	w.err = &WorkflowError{
		Kind:    kind,
		Message: kindMessage(kind, w.locale, w.deps.AdminContact),
		Fields:  fields,
		Err:     cause,
	}
	span.RecordError(cause)
	span.SetStatus(codes.Error, string(kind))
	metrics.RecordWorkflowError(string(kind))
	w.enter(StateError)
	logger.Warn("registration failed", "session_id", w.id, "kind", string(kind), "error", cause)
	return w.err
}
