package service

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bdu-ccms/ccms-api/internal/models"
	"github.com/bdu-ccms/ccms-api/pkg/certificate"
	appErrors "github.com/bdu-ccms/ccms-api/pkg/errors"
	"github.com/bdu-ccms/ccms-api/pkg/storage"
)

type decisionProvider interface {
	Decision(id string) (*models.ClearanceDecision, error)
}

// SavedCertificate describes a persisted certificate artifact.
type SavedCertificate struct {
	Filename    string    `json:"filename"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// CertificateConfig tunes certificate delivery.
type CertificateConfig struct {
	// APIPrefix is prepended to generated download URLs.
	APIPrefix string
}

// CertificateService renders and persists clearance certificates for
// approved decisions. Preview and Save produce the same artifact; only Save
// writes it to storage.
type CertificateService struct {
	decisions decisionProvider
	renderer  *certificate.Renderer
	store     *storage.LocalStorage
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	config    CertificateConfig
}

// NewCertificateService constructs a CertificateService instance.
func NewCertificateService(decisions decisionProvider, renderer *certificate.Renderer, store *storage.LocalStorage, signer *storage.SignedURLSigner, logger *zap.Logger, config CertificateConfig) *CertificateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.APIPrefix == "" {
		config.APIPrefix = "/api/v1"
	}
	return &CertificateService{decisions: decisions, renderer: renderer, store: store, signer: signer, logger: logger, config: config}
}

// Preview renders the certificate for an approved decision without
// persisting anything.
func (s *CertificateService) Preview(decisionID string) ([]byte, string, error) {
	decision, err := s.decisions.Decision(decisionID)
	if err != nil {
		return nil, "", err
	}

	pdf, err := s.renderer.Render(*decision.Certificate)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render certificate")
	}
	return pdf, certificateFilename(decision), nil
}

// Save renders the certificate, writes it to the artifact store and returns
// a signed download URL.
func (s *CertificateService) Save(decisionID string) (*SavedCertificate, error) {
	decision, err := s.decisions.Decision(decisionID)
	if err != nil {
		return nil, err
	}

	pdf, err := s.renderer.Render(*decision.Certificate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render certificate")
	}

	filename := certificateFilename(decision)
	if _, err := s.store.Save(filename, pdf); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "failed to persist certificate")
	}

	token, expiresAt, err := s.signer.Generate(decision.ID, filename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download URL")
	}

	return &SavedCertificate{
		Filename:    filename,
		DownloadURL: strings.TrimRight(s.config.APIPrefix, "/") + "/certificates/download/" + token,
		ExpiresAt:   expiresAt,
	}, nil
}

// OpenByToken validates a signed download token and opens the stored
// artifact.
func (s *CertificateService) OpenByToken(token string) (*os.File, string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download link")
	}

	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
	}
	return file, relPath, nil
}

func certificateFilename(decision *models.ClearanceDecision) string {
	return fmt.Sprintf("clearance_%s_%d.pdf", decision.StudentID, decision.DecidedAt.Unix())
}
