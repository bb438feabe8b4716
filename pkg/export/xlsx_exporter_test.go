package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXExporterRendersWorkbook(t *testing.T) {
	exporter := NewXLSXExporter()

	data, err := exporter.Render(Dataset{
		Headers: []string{"Official ID", "Department"},
		Rows: []map[string]string{
			{"Official ID": "OFF001", "Department": "Library"},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer workbook.Close()

	rows, err := workbook.GetRows("Data")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Official ID", "Department"}, rows[0])
	assert.Equal(t, []string{"OFF001", "Library"}, rows[1])
}
