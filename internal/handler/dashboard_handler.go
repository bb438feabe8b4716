package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bdu-ccms/ccms-api/internal/service"
	"github.com/bdu-ccms/ccms-api/pkg/response"
)

// DashboardHandler serves the admin landing page counts.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Summary godoc
// @Summary Dashboard summary
// @Description Headline counts for the admin dashboard
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, summary, nil)
}
