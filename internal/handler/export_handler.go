package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bdu-ccms/ccms-api/internal/service"
	appErrors "github.com/bdu-ccms/ccms-api/pkg/errors"
	"github.com/bdu-ccms/ccms-api/pkg/response"
)

// ExportHandler serves filtered-view downloads for the admin tables.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Export godoc
// @Summary Export a filtered admin view
// @Description Download the currently filtered officials or risks table as CSV or XLSX
// @Tags Exports
// @Produce octet-stream
// @Security BearerAuth
// @Param resource path string true "Resource (officials or risks)"
// @Param format query string false "csv (default) or xlsx"
// @Param search query string false "Free-text search applied server-side"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /admin/export/{resource} [get]
func (h *ExportHandler) Export(c *gin.Context) {
	var (
		file *service.ExportedFile
		err  error
	)

	search := c.Query("search")
	format := c.Query("format")

	switch c.Param("resource") {
	case "officials":
		file, err = h.service.ExportOfficials(c.Request.Context(), search, format)
	case "risks":
		file, err = h.service.ExportRisks(c.Request.Context(), search, format)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "resource must be officials or risks"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
