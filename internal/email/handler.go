package email

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"esportfed/internal/api"
	"esportfed/internal/logger"

	"github.com/gin-gonic/gin"
)

type Queue interface {
	Enqueuer
	Entries(ctx context.Context, status EntryStatus, limit int) ([]Entry, error)
	QueueLength(ctx context.Context) int64
}

type Handler struct {
	queue Queue
}

func NewHandler(queue Queue) *Handler {
	return &Handler{queue: queue}
}

type MonitorResponse struct {
	QueueLength int64   `json:"queue_length"`
	Entries     []Entry `json:"entries"`
}

type TestEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

// @Summary      Email queue monitor
// @Description  Admin-only: delivery status per queued email.
// @Tags         admin,emails
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "pending|sending|sent|failed"
// @Param        limit   query  int     false  "Max entries (default 100)"
// @Success      200 {object} email.MonitorResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/emails [get]
func (h *Handler) Monitor(c *gin.Context) {
	status := EntryStatus(c.Query("status"))
	switch status {
	case "", StatusPending, StatusSending, StatusSent, StatusFailed:
	default:
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid status"})
		return
	}

	limit := 100
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid limit"})
			return
		}
		limit = n
	}

	ctx := c.Request.Context()
	entries, err := h.queue.Entries(ctx, status, limit)
	if err != nil {
		logger.Error("email monitor failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to read email queue"})
		return
	}

	c.JSON(http.StatusOK, MonitorResponse{
		QueueLength: h.queue.QueueLength(ctx),
		Entries:     entries,
	})
}

// @Summary      Send test email
// @Tags         admin,emails
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body email.TestEmailRequest true "Recipient"
// @Success      202 {object} email.Result
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/emails/test [post]
func (h *Handler) SendTest(c *gin.Context) {
	var req TestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	name := req.Name
	if name == "" {
		name = req.Email
	}

	res, err := h.queue.Enqueue(c.Request.Context(), Request{
		TemplateType:   TemplateTest,
		RecipientEmail: req.Email,
		RecipientName:  name,
		TemplateData:   map[string]any{"Name": name},
	})
	if err != nil {
		if errors.Is(err, ErrUnknownTemplate) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to queue email"})
		return
	}

	c.JSON(http.StatusAccepted, res)
}

// @Summary      Queue a templated email
// @Description  Admin-only Email Function endpoint: renders the template server-side and queues it.
// @Tags         admin,emails
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body email.Request true "Template and recipient"
// @Success      202 {object} email.Result
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/emails [post]
func (h *Handler) Send(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	res, err := h.queue.Enqueue(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrUnknownTemplate) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("email enqueue failed", "template", req.TemplateType, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to queue email"})
		return
	}

	c.JSON(http.StatusAccepted, res)
}
