package report

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/commission-cli/internal/model"
)

func sampleRecords() []model.AttributionRecord {
	return []model.AttributionRecord{
		{
			Company:        "Globex",
			RawPercent:     map[string]float64{"carol": 80},
			RoundedPercent: map[string]float64{"carol": 75},
		},
		{
			Company:        "Acme",
			RawPercent:     map[string]float64{"bob": 6.67, "alice": 13.33},
			RoundedPercent: map[string]float64{"bob": 0, "alice": 25},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	want := "company,participant,raw_percent,rounded_percent\n" +
		"Acme,alice,13.33,25\n" +
		"Acme,bob,6.67,0\n" +
		"Globex,carol,80.00,75\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "company,participant,raw_percent,rounded_percent\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attribution.xlsx")
	require.NoError(t, WriteXLSX(path, sampleRecords()))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	assert.Equal(t, "Attribution", sheet.Name)
	require.Len(t, sheet.Rows, 4)
	assert.Equal(t, "company", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "Acme", sheet.Rows[1].Cells[0].Value)
	assert.Equal(t, "alice", sheet.Rows[1].Cells[1].Value)
	assert.Equal(t, "25", sheet.Rows[1].Cells[3].Value)
}
