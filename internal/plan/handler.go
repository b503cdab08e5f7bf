package plan

import (
	"net/http"

	"esportfed/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// @Summary      List membership plans
// @Description  Active plans ordered by price. Falls back to the built-in plans when storage is unavailable.
// @Tags         plans
// @Produce      json
// @Param        Accept-Language  header  string  false  "fr or en"
// @Success      200 {array} plan.PlanView
// @Router       /plans [get]
func (h *Handler) List(c *gin.Context) {
	locale := api.Locale(c.GetHeader("Accept-Language"))
	c.JSON(http.StatusOK, h.catalog.Views(c.Request.Context(), locale))
}
