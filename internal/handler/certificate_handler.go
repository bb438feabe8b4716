package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bdu-ccms/ccms-api/internal/service"
	"github.com/bdu-ccms/ccms-api/pkg/response"
)

// CertificateHandler serves certificate preview, save and download.
type CertificateHandler struct {
	service *service.CertificateService
}

// NewCertificateHandler creates a new handler.
func NewCertificateHandler(svc *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{service: svc}
}

// Preview godoc
// @Summary Preview a clearance certificate
// @Description Render the certificate PDF for an approved decision without persisting it
// @Tags Certificates
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Decision ID"
// @Success 200 {file} binary
// @Failure 409 {object} response.Envelope
// @Router /clearance/decisions/{id}/certificate [get]
func (h *CertificateHandler) Preview(c *gin.Context) {
	pdf, filename, err := h.service.Preview(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Save godoc
// @Summary Save a clearance certificate
// @Description Persist the certificate PDF and return a signed download URL
// @Tags Certificates
// @Produce json
// @Security BearerAuth
// @Param id path string true "Decision ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /clearance/decisions/{id}/certificate/save [post]
func (h *CertificateHandler) Save(c *gin.Context) {
	saved, err := h.service.Save(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, saved, nil)
}

// Download godoc
// @Summary Download a saved certificate
// @Description Stream a persisted certificate via its signed token
// @Tags Certificates
// @Produce application/pdf
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /certificates/download/{token} [get]
func (h *CertificateHandler) Download(c *gin.Context) {
	file, filename, err := h.service.OpenByToken(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/pdf")
	c.File(file.Name())
}
