package registration

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"esportfed/internal/api"
	"esportfed/internal/logger"
	"esportfed/internal/member"
	"esportfed/internal/payment"
	"esportfed/internal/plan"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 64 << 10

type MemberLookup interface {
	FindByEmail(ctx context.Context, email string) (*member.Member, error)
}

type PlanFinder interface {
	Find(ctx context.Context, locale, id string) (plan.Plan, bool)
}

type EventParser interface {
	Parse(payload []byte, signature string) (*payment.Event, error)
}

type Handler struct {
	sessions *Sessions
	members  MemberLookup
	plans    PlanFinder
	webhook  EventParser
}

func NewHandler(sessions *Sessions, members MemberLookup, plans PlanFinder, webhook EventParser) *Handler {
	return &Handler{
		sessions: sessions,
		members:  members,
		plans:    plans,
		webhook:  webhook,
	}
}

// WorkflowErrorResponse is returned when a workflow step fails.
type WorkflowErrorResponse struct {
	Error     string                    `json:"error"`
	Kind      ErrorKind                 `json:"kind"`
	SessionID string                    `json:"session_id"`
	Fields    map[string]api.FieldError `json:"fields,omitempty"`
}

type CaptureRequest struct {
	CheckoutID string `json:"checkout_id"`
}

type PaymentErrorRequest struct {
	Message string `json:"message"`
}

// @Summary      Submit a registration
// @Description  Validates the form, rejects known emails, records the member and activates free plans immediately.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        Accept-Language  header  string    false  "fr or en"
// @Param        request          body    RawInput  true   "Registration form"
// @Success      201 {object} Snapshot
// @Failure      400 {object} WorkflowErrorResponse
// @Failure      409 {object} WorkflowErrorResponse
// @Failure      500 {object} WorkflowErrorResponse
// @Failure      503 {object} WorkflowErrorResponse
// @Router       /registrations [post]
func (h *Handler) Create(c *gin.Context) {
	var raw RawInput
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid request body"})
		return
	}

	w := h.sessions.Create(api.Locale(c.GetHeader("Accept-Language")))
	err := w.Submit(c.Request.Context(), raw)
	h.sessions.Settle(w)
	if err != nil {
		h.respondError(c, w, err)
		return
	}

	c.JSON(http.StatusCreated, w.Snapshot())
}

// @Summary      Resubmit a registration
// @Description  Sends a corrected form on a session that failed before anything was written.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        sessionID  path  string    true  "Session ID"
// @Param        request    body  RawInput  true  "Registration form"
// @Success      201 {object} Snapshot
// @Failure      400 {object} WorkflowErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} WorkflowErrorResponse
// @Router       /registrations/{sessionID}/submit [post]
func (h *Handler) Resubmit(c *gin.Context) {
	w, ok := h.session(c)
	if !ok {
		return
	}

	var raw RawInput
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid request body"})
		return
	}

	err := w.Submit(c.Request.Context(), raw)
	h.sessions.Settle(w)
	if err != nil {
		h.respondError(c, w, err)
		return
	}

	c.JSON(http.StatusCreated, w.Snapshot())
}

// @Summary      Get a registration
// @Tags         registrations
// @Produce      json
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200 {object} Snapshot
// @Failure      404 {object} api.ErrorResponse
// @Router       /registrations/{sessionID} [get]
func (h *Handler) Get(c *gin.Context) {
	w, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, w.Snapshot())
}

// @Summary      Start payment
// @Description  Creates a checkout for the plan price. Also used to retry after a payment error.
// @Tags         registrations
// @Produce      json
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200 {object} payment.Checkout
// @Failure      402 {object} WorkflowErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /registrations/{sessionID}/checkout [post]
func (h *Handler) StartCheckout(c *gin.Context) {
	w, ok := h.session(c)
	if !ok {
		return
	}

	checkout, err := w.StartCheckout(c.Request.Context())
	if err != nil {
		h.respondError(c, w, err)
		return
	}

	c.JSON(http.StatusOK, checkout)
}

// @Summary      Capture an approved payment
// @Description  Confirms the checkout with the provider and activates the member on success.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        sessionID  path  string          true   "Session ID"
// @Param        request    body  CaptureRequest  false  "Checkout to capture"
// @Success      200 {object} Snapshot
// @Success      202 {object} Snapshot
// @Failure      402 {object} WorkflowErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      422 {object} api.ErrorResponse
// @Router       /registrations/{sessionID}/capture [post]
func (h *Handler) Capture(c *gin.Context) {
	w, ok := h.session(c)
	if !ok {
		return
	}

	var req CaptureRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid request body"})
			return
		}
	}

	err := w.CompleteCheckout(c.Request.Context(), req.CheckoutID)
	h.sessions.Settle(w)
	if errors.Is(err, payment.ErrPaymentPending) {
		c.JSON(http.StatusAccepted, w.Snapshot())
		return
	}
	if err != nil {
		h.respondError(c, w, err)
		return
	}

	c.JSON(http.StatusOK, w.Snapshot())
}

// @Summary      Report a payment error
// @Description  Called by the checkout widget when the payer cancels or the provider declines. The member stays pending.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        sessionID  path  string               true   "Session ID"
// @Param        request    body  PaymentErrorRequest  false  "Provider message"
// @Success      200 {object} Snapshot
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /registrations/{sessionID}/payment-error [post]
func (h *Handler) PaymentError(c *gin.Context) {
	w, ok := h.session(c)
	if !ok {
		return
	}

	// The body is optional; a present one must be valid JSON.
	var req PaymentErrorRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid request body"})
			return
		}
	}

	cause := payment.ErrPaymentFailed
	if req.Message != "" {
		cause = fmt.Errorf("%w: %s", payment.ErrPaymentFailed, req.Message)
	}

	var wfErr *WorkflowError
	if err := w.PaymentFailed(c.Request.Context(), cause); err != nil && !errors.As(err, &wfErr) {
		h.respondError(c, w, err)
		return
	}

	c.JSON(http.StatusOK, w.Snapshot())
}

// @Summary      Reset a registration
// @Description  Returns a finished or failed session to an empty form.
// @Tags         registrations
// @Produce      json
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200 {object} Snapshot
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /registrations/{sessionID}/reset [post]
func (h *Handler) Reset(c *gin.Context) {
	w, ok := h.session(c)
	if !ok {
		return
	}

	if err := w.Reset(); err != nil {
		h.respondError(c, w, err)
		return
	}
	h.sessions.Settle(w)

	c.JSON(http.StatusOK, w.Snapshot())
}

// @Summary      Stripe webhook
// @Description  Payment intent callbacks. Activates the pending member on success.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature  header  string  true  "Stripe signature"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /webhooks/stripe [post]
func (h *Handler) StripeWebhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Unreadable payload"})
		return
	}

	ev, err := h.webhook.Parse(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		logger.Warn("stripe webhook rejected", "error", err)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid webhook"})
		return
	}
	if ev == nil {
		c.JSON(http.StatusOK, api.MessageResponse{Message: "ignored"})
		return
	}

	ctx := c.Request.Context()
	w, err := h.workflowForPayment(ctx, ev.Email)
	if err != nil {
		logger.Error("stripe webhook lookup failed", "provider_payment_id", ev.ProviderPaymentID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Lookup failed"})
		return
	}
	if w == nil {
		logger.Info("stripe webhook has no pending registration",
			"provider_payment_id", ev.ProviderPaymentID, "type", ev.Type)
		c.JSON(http.StatusOK, api.MessageResponse{Message: "no pending registration"})
		return
	}

	if ev.Status == payment.StatusSucceeded {
		err = w.PaymentSucceeded(ctx, payment.Result{
			ProviderPaymentID: ev.ProviderPaymentID,
			Status:            ev.Status,
			Email:             ev.Email,
			Reference:         ev.Reference,
		})
	} else {
		err = w.PaymentFailed(ctx, fmt.Errorf("%w: %s", payment.ErrPaymentFailed, ev.ErrorMessage))
	}
	h.sessions.Settle(w)

	var wfErr *WorkflowError
	switch {
	case err == nil:
	case errors.As(err, &wfErr) && wfErr.Kind == KindActivation:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Activation failed"})
		return
	case errors.As(err, &wfErr):
	default:
		logger.Warn("stripe webhook not applied", "session_id", w.ID(), "provider_payment_id", ev.ProviderPaymentID, "error", err)
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "processed"})
}

// workflowForPayment finds the live workflow for email, or rebuilds one from
// a pending member row. It returns nil when nothing awaits payment.
func (h *Handler) workflowForPayment(ctx context.Context, email string) (*Workflow, error) {
	if email == "" {
		return nil, nil
	}
	if w, ok := h.sessions.FindAwaitingPayment(email); ok {
		return w, nil
	}

	m, err := h.members.FindByEmail(ctx, member.NormalizeEmail(email))
	if errors.Is(err, member.ErrMemberNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if m.Status != member.StatusPending {
		return nil, nil
	}

	p, ok := h.plans.Find(ctx, api.DefaultLocale, m.PlanID)
	if !ok {
		p = plan.Plan{ID: m.PlanID, Name: m.PlanID}
	}
	return h.sessions.Resume(api.DefaultLocale, *m, p), nil
}

func (h *Handler) session(c *gin.Context) (*Workflow, bool) {
	w, err := h.sessions.Get(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Registration not found"})
		return nil, false
	}
	return w, true
}

func (h *Handler) respondError(c *gin.Context, w *Workflow, err error) {
	var wfErr *WorkflowError
	if errors.As(err, &wfErr) {
		c.JSON(statusForKind(wfErr.Kind), WorkflowErrorResponse{
			Error:     wfErr.Message,
			Kind:      wfErr.Kind,
			SessionID: w.ID(),
			Fields:    wfErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Operation not allowed in current state"})
	case errors.Is(err, ErrNothingToCharge):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "This plan has nothing to pay"})
	case errors.Is(err, ErrNoCheckout):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "No checkout started"})
	case errors.Is(err, ErrEmailMismatch), errors.Is(err, ErrCheckoutMismatch):
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: "Payment does not match this registration"})
	default:
		logger.Error("registration request failed", "session_id", w.ID(), "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal error"})
	}
}

func statusForKind(kind ErrorKind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindDuplicate:
		return http.StatusConflict
	case KindConnectivity:
		return http.StatusServiceUnavailable
	case KindPayment:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) RegisterRoutes(public *gin.RouterGroup) {
	reg := public.Group("/registrations")
	reg.POST("", h.Create)
	reg.GET("/:sessionID", h.Get)
	reg.POST("/:sessionID/submit", h.Resubmit)
	reg.POST("/:sessionID/checkout", h.StartCheckout)
	reg.POST("/:sessionID/capture", h.Capture)
	reg.POST("/:sessionID/payment-error", h.PaymentError)
	reg.POST("/:sessionID/reset", h.Reset)

	public.POST("/webhooks/stripe", h.StripeWebhook)
}
