package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRendersRowsInHeaderOrder(t *testing.T) {
	exporter := NewCSVExporter()

	data, err := exporter.Render(Dataset{
		Headers: []string{"Student ID", "Case"},
		Rows: []map[string]string{
			{"Case": "Unpaid library fine", "Student ID": "CS003"},
			{"Student ID": "EE010", "Case": "Outstanding tuition balance"},
		},
	})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, utf8BOM), "exports carry a BOM so Excel detects the encoding")

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Student ID", "Case"}, records[0])
	assert.Equal(t, []string{"CS003", "Unpaid library fine"}, records[1])
	assert.Equal(t, []string{"EE010", "Outstanding tuition balance"}, records[2])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{})
	assert.Error(t, err)
}
