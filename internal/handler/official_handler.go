package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bdu-ccms/ccms-api/internal/models"
	"github.com/bdu-ccms/ccms-api/internal/service"
	appErrors "github.com/bdu-ccms/ccms-api/pkg/errors"
	"github.com/bdu-ccms/ccms-api/pkg/response"
)

// OfficialHandler wires the admin staff directory endpoints.
type OfficialHandler struct {
	service *service.OfficialService
}

// NewOfficialHandler creates a new handler.
func NewOfficialHandler(svc *service.OfficialService) *OfficialHandler {
	return &OfficialHandler{service: svc}
}

// List godoc
// @Summary List officials
// @Description List staff directory records with search across all fields
// @Tags Officials
// @Produce json
// @Security BearerAuth
// @Param search query string false "Free-text search"
// @Param department query string false "Department filter"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/officials [get]
func (h *OfficialHandler) List(c *gin.Context) {
	filter := models.OfficialFilter{
		Search:     c.Query("search"),
		Department: c.Query("department"),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 20),
	}

	officials, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, officials, pagination(filter.Page, filter.PageSize, total))
}

// Get godoc
// @Summary Get an official
// @Tags Officials
// @Produce json
// @Security BearerAuth
// @Param id path string true "Official ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/officials/{id} [get]
func (h *OfficialHandler) Get(c *gin.Context) {
	official, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, official, nil)
}

// Create godoc
// @Summary Register an official
// @Tags Officials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.OfficialRequest true "Official payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/officials [post]
func (h *OfficialHandler) Create(c *gin.Context) {
	var req models.OfficialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid official payload"))
		return
	}

	official, err := h.service.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, official)
}

// Update godoc
// @Summary Update an official
// @Tags Officials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Official ID"
// @Param payload body models.OfficialRequest true "Official payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/officials/{id} [put]
func (h *OfficialHandler) Update(c *gin.Context) {
	var req models.OfficialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid official payload"))
		return
	}

	official, err := h.service.Update(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, official, nil)
}

// Delete godoc
// @Summary Delete an official
// @Description Remove an official; requires confirm=true
// @Tags Officials
// @Produce json
// @Security BearerAuth
// @Param id path string true "Official ID"
// @Param confirm query bool true "Explicit confirmation"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 428 {object} response.Envelope
// @Router /admin/officials/{id} [delete]
func (h *OfficialHandler) Delete(c *gin.Context) {
	confirmed := c.Query("confirm") == "true"
	if err := h.service.Delete(c.Request.Context(), claimsFromContext(c), c.Param("id"), confirmed); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
