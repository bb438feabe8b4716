package certificate

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/bdu-ccms/ccms-api/internal/models"
)

// Renderer produces the fixed-layout clearance certificate: bordered A4
// page, institution header, field/value table, registrar signature line and
// seal box. Both preview and save render through the same code path.
type Renderer struct {
	institution string
}

// NewRenderer constructs a certificate renderer for the named institution.
func NewRenderer(institution string) *Renderer {
	if institution == "" {
		institution = "Bahir Dar University"
	}
	return &Renderer{institution: institution}
}

// Render produces the PDF bytes for an approved clearance snapshot.
func (r *Renderer) Render(data models.CertificateData) ([]byte, error) {
	if data.StudentID == "" {
		return nil, fmt.Errorf("certificate requires a student identifier")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 15, 20)
	pdf.AddPage()

	// Page border.
	pdf.SetDrawColor(212, 175, 55)
	pdf.SetLineWidth(1.2)
	pdf.Rect(10, 10, 190, 277, "D")

	pdf.SetFont("Times", "B", 20)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetY(30)
	pdf.CellFormat(0, 10, r.institution, "", 1, "C", false, 0, "")

	pdf.SetFont("Times", "I", 16)
	pdf.CellFormat(0, 10, "Clearance Certificate", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	rows := [][2]string{
		{"Student Name", data.StudentName},
		{"Father's Name", data.FatherName},
		{"Grandfather's Name", data.GrandFatherName},
		{"Sex", data.Sex},
		{"Student ID", data.StudentID},
		{"Department", data.Department},
		{"Academic Year", data.AcademicYear},
		{"Semester", data.Semester},
		{"Year of Study", data.YearOfStudy},
		{"Reason for Clearance", data.Reason},
		{"Date of Application", data.SubmittedAt.Format("Jan 2, 2006 3:04 PM")},
	}

	pdf.SetDrawColor(212, 175, 55)
	pdf.SetLineWidth(0.2)

	pdf.SetFont("Times", "B", 12)
	pdf.SetFillColor(33, 150, 243)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(60, 9, "Field", "1", 0, "L", true, 0, "")
	pdf.CellFormat(110, 9, "Details", "1", 1, "L", true, 0, "")

	pdf.SetTextColor(0, 0, 0)
	for i, row := range rows {
		fill := i%2 == 1
		pdf.SetFillColor(245, 245, 245)
		pdf.SetFont("Times", "B", 11)
		pdf.CellFormat(60, 8, row[0], "1", 0, "L", fill, 0, "")
		pdf.SetFont("Times", "", 11)
		pdf.CellFormat(110, 8, row[1], "1", 1, "L", fill, 0, "")
	}

	// Signature line and seal box anchored near the bottom of the page.
	pdf.SetY(250)
	pdf.SetFont("Times", "", 13)
	pdf.CellFormat(90, 6, "_____________________________", "", 1, "L", false, 0, "")
	pdf.CellFormat(90, 6, "Registrar Signature", "", 0, "L", false, 0, "")

	pdf.Rect(150, 235, 40, 40, "D")
	pdf.SetXY(150, 252)
	pdf.SetFont("Times", "I", 9)
	pdf.CellFormat(40, 5, "Official Seal", "", 0, "C", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	return buf.Bytes(), nil
}
