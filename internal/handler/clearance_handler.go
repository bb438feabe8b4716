package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bdu-ccms/ccms-api/internal/models"
	"github.com/bdu-ccms/ccms-api/internal/service"
	appErrors "github.com/bdu-ccms/ccms-api/pkg/errors"
	"github.com/bdu-ccms/ccms-api/pkg/response"
)

// ClearanceHandler wires the clearance request workflow.
type ClearanceHandler struct {
	service *service.ClearanceService
}

// NewClearanceHandler creates a new handler.
func NewClearanceHandler(svc *service.ClearanceService) *ClearanceHandler {
	return &ClearanceHandler{service: svc}
}

// Submit godoc
// @Summary Submit a clearance request
// @Description Validate the form and derive an eligibility decision for the authenticated student
// @Tags Clearance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.ClearanceSubmission true "Clearance form"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /clearance/requests [post]
func (h *ClearanceHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var submission models.ClearanceSubmission
	if err := c.ShouldBindJSON(&submission); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid clearance payload"))
		return
	}

	decision, err := h.service.Submit(c.Request.Context(), claims.SubjectID, submission)
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusOK
	if decision.Outcome == models.DecisionRejected {
		status = http.StatusBadRequest
	}
	response.JSON(c, status, decision, nil)
}
