package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bdu-ccms/ccms-api/internal/models"
	"github.com/bdu-ccms/ccms-api/internal/service"
	"github.com/bdu-ccms/ccms-api/pkg/response"
)

// StudentHandler exposes the read-only student directory.
type StudentHandler struct {
	students *service.StudentService
	risks    *service.RiskService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(students *service.StudentService, risks *service.RiskService) *StudentHandler {
	return &StudentHandler{students: students, risks: risks}
}

// List godoc
// @Summary List students
// @Description List directory students with search and pagination
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param search query string false "Free-text search"
// @Param department query string false "Department filter"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	filter := models.StudentFilter{
		Search:     c.Query("search"),
		Department: c.Query("department"),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 20),
	}

	students, total, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, students, pagination(filter.Page, filter.PageSize, total))
}

// Get godoc
// @Summary Get a student
// @Description Resolve a student by campus identifier, case-insensitively
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{studentId} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, student, nil)
}

// Eligible godoc
// @Summary List students without an active risk entry
// @Description Candidates for the select-existing-student flagging flow
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param search query string false "Free-text search"
// @Param department query string false "Department filter"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students/eligible [get]
func (h *StudentHandler) Eligible(c *gin.Context) {
	filter := models.StudentFilter{
		Search:     c.Query("search"),
		Department: c.Query("department"),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 20),
	}

	students, total, err := h.risks.EligibleStudents(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, students, pagination(filter.Page, filter.PageSize, total))
}
