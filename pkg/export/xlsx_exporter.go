package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXExporter renders Dataset records into a single-sheet workbook.
type XLSXExporter struct{}

// NewXLSXExporter builds an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render produces an xlsx workbook with the dataset on a "Data" sheet.
func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one header")
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	const sheet = "Data"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create xlsx sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headerRow := make([]interface{}, len(data.Headers))
	for i, header := range data.Headers {
		headerRow[i] = header
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("write xlsx headers: %w", err)
	}

	for i, row := range data.Rows {
		record := make([]interface{}, len(data.Headers))
		for j, header := range data.Headers {
			record[j] = row[header]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("resolve xlsx cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &record); err != nil {
			return nil, fmt.Errorf("write xlsx row: %w", err)
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
