package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bdu-ccms/ccms-api/internal/models"
	appErrors "github.com/bdu-ccms/ccms-api/pkg/errors"
	"github.com/bdu-ccms/ccms-api/pkg/export"
)

type exportOfficialRepository interface {
	List(ctx context.Context, filter models.OfficialFilter) ([]models.OfficialProfile, int, error)
}

type exportRiskRepository interface {
	List(ctx context.Context, filter models.RiskFilter) ([]models.RiskEntry, int, error)
}

type exporter interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportedFile is a rendered export ready for download.
type ExportedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders filtered admin views as CSV or XLSX files. The
// export reflects exactly the rows the filter matches, fetched page by page.
type ExportService struct {
	officials exportOfficialRepository
	risks     exportRiskRepository
	csv       exporter
	xlsx      exporter
	logger    *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(officials exportOfficialRepository, risks exportRiskRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		officials: officials,
		risks:     risks,
		csv:       export.NewCSVExporter(),
		xlsx:      export.NewXLSXExporter(),
		logger:    logger,
	}
}

// ExportOfficials renders the filtered official list.
func (s *ExportService) ExportOfficials(ctx context.Context, search, format string) (*ExportedFile, error) {
	dataset := export.Dataset{
		Headers: []string{"Official ID", "First Name", "Last Name", "Role", "Profession", "Education", "Department", "Email", "Phone", "Username"},
	}

	filter := models.OfficialFilter{Search: search, Page: 1, PageSize: 100}
	for {
		officials, total, err := s.officials.List(ctx, filter)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list officials for export")
		}
		for _, official := range officials {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Official ID": official.OfficialID,
				"First Name":  official.FirstName,
				"Last Name":   official.LastName,
				"Role":        string(official.Role),
				"Profession":  official.Profession,
				"Education":   official.Education,
				"Department":  official.Department,
				"Email":       official.Email,
				"Phone":       official.Phone,
				"Username":    official.Username,
			})
		}
		if len(dataset.Rows) >= total || len(officials) == 0 {
			break
		}
		filter.Page++
	}

	return s.render("officials", format, dataset)
}

// ExportRisks renders the filtered risk registry.
func (s *ExportService) ExportRisks(ctx context.Context, search, format string) (*ExportedFile, error) {
	dataset := export.Dataset{
		Headers: []string{"Student ID", "Student Name", "Department", "Case", "Added By", "Status", "Created At"},
	}

	filter := models.RiskFilter{Search: search, Page: 1, PageSize: 100}
	for {
		entries, total, err := s.risks.List(ctx, filter)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list risk entries for export")
		}
		for _, entry := range entries {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Student ID":   entry.StudentID,
				"Student Name": entry.StudentName,
				"Department":   entry.Department,
				"Case":         entry.CaseDescription,
				"Added By":     entry.AddedByName,
				"Status":       string(entry.Status),
				"Created At":   entry.CreatedAt.Format(time.RFC3339),
			})
		}
		if len(dataset.Rows) >= total || len(entries) == 0 {
			break
		}
		filter.Page++
	}

	return s.render("risks", format, dataset)
}

func (s *ExportService) render(resource, format string, dataset export.Dataset) (*ExportedFile, error) {
	timestamp := time.Now().UTC().Format("20060102_150405")
	switch format {
	case "", "csv":
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportedFile{
			Filename:    fmt.Sprintf("%s_%s.csv", resource, timestamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case "xlsx":
		data, err := s.xlsx.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render xlsx export")
		}
		return &ExportedFile{
			Filename:    fmt.Sprintf("%s_%s.xlsx", resource, timestamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or xlsx")
	}
}
