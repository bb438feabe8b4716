package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bdu-ccms/ccms-api/internal/models"
	"github.com/bdu-ccms/ccms-api/internal/service"
	appErrors "github.com/bdu-ccms/ccms-api/pkg/errors"
	"github.com/bdu-ccms/ccms-api/pkg/response"
)

// RiskHandler wires the risk registry endpoints.
type RiskHandler struct {
	service *service.RiskService
}

// NewRiskHandler creates a new handler.
func NewRiskHandler(svc *service.RiskService) *RiskHandler {
	return &RiskHandler{service: svc}
}

// List godoc
// @Summary List risk entries
// @Description List registry entries visible to the caller
// @Tags Risks
// @Produce json
// @Security BearerAuth
// @Param search query string false "Free-text search"
// @Param department query string false "Department filter"
// @Param status query string false "Status filter (atRisk or resolved)"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /risks [get]
func (h *RiskHandler) List(c *gin.Context) {
	filter := models.RiskFilter{
		Search:     c.Query("search"),
		Department: c.Query("department"),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.RiskStatus(raw)
		filter.Status = &status
	}

	entries, total, err := h.service.List(c.Request.Context(), claimsFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, entries, pagination(filter.Page, filter.PageSize, total))
}

// Get godoc
// @Summary Get a risk entry
// @Tags Risks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /risks/{id} [get]
func (h *RiskHandler) Get(c *gin.Context) {
	entry, err := h.service.Get(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, entry, nil)
}

// Create godoc
// @Summary Flag a student
// @Description Create a registry entry for a directory student without an active one
// @Tags Risks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.RiskCreateRequest true "Entry payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /risks [post]
func (h *RiskHandler) Create(c *gin.Context) {
	var req models.RiskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid risk payload"))
		return
	}

	entry, err := h.service.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, entry)
}

// Update godoc
// @Summary Update a risk entry
// @Description Update an entry by its stable identifier
// @Tags Risks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Param payload body models.RiskUpdateRequest true "Entry payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /risks/{id} [put]
func (h *RiskHandler) Update(c *gin.Context) {
	var req models.RiskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid risk payload"))
		return
	}

	entry, err := h.service.Update(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Delete a risk entry
// @Description Remove an entry; requires confirm=true
// @Tags Risks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Param confirm query bool true "Explicit confirmation"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 428 {object} response.Envelope
// @Router /risks/{id} [delete]
func (h *RiskHandler) Delete(c *gin.Context) {
	confirmed := c.Query("confirm") == "true"
	if err := h.service.Delete(c.Request.Context(), claimsFromContext(c), c.Param("id"), confirmed); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
