package member

import (
	"errors"
	"net/http"
	"strconv"

	"esportfed/internal/api"
	"esportfed/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      List members
// @Description  Admin-only: filter by status, category and free-text search.
// @Tags         admin,members
// @Produce      json
// @Security     BearerAuth
// @Param        status    query  string  false  "pending|active|suspended|expired"
// @Param        category  query  string  false  "player|club|partner"
// @Param        q         query  string  false  "Search on name, email, city"
// @Param        limit     query  int     false  "Page size"
// @Param        offset    query  int     false  "Offset"
// @Success      200 {array}  member.Member
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/members [get]
func (h *Handler) List(c *gin.Context) {
	f := Filter{
		Status:   Status(c.Query("status")),
		Category: Category(c.Query("category")),
		Search:   c.Query("q"),
	}
	if f.Category != "" && !f.Category.Valid() {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid category"})
		return
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid limit"})
			return
		}
		f.Limit = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid offset"})
			return
		}
		f.Offset = n
	}

	members, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid status"})
			return
		}
		logger.Error("list members failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch members"})
		return
	}

	c.JSON(http.StatusOK, members)
}

// @Summary      Get member
// @Tags         admin,members
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Member ID"
// @Success      200 {object} member.Member
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/members/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid member ID"})
		return
	}

	m, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch member"})
		return
	}

	c.JSON(http.StatusOK, m)
}

// @Summary      Change member status
// @Description  Admin-only: activate, suspend or expire a member.
// @Tags         admin,members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                      true  "Member ID"
// @Param        request  body  member.UpdateStatusRequest  true  "New status"
// @Success      200 {object} member.Member
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/members/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid member ID"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	m, err := h.service.ChangeStatus(c.Request.Context(), id, Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ErrMemberNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Member not found"})
		case errors.Is(err, ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid status"})
		default:
			logger.Error("member status change failed", "member_id", id.String(), "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update member"})
		}
		return
	}

	c.JSON(http.StatusOK, m)
}
