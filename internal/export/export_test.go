package export

import (
	"bytes"
	"testing"
	"time"

	"stocky/internal/analytics"
	"stocky/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var reportTime = time.Date(2024, 5, 10, 12, 0, 0, 0, time.Local)

func testReport() *analytics.Report {
	return analytics.BuildReport(testhelpers.SetupTestSnapshot(reportTime), reportTime)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat("pdf")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("csv")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFileNameAndContentType(t *testing.T) {
	assert.Equal(t, "stock-report-20240510-120000.xlsx", FileName(FormatXLSX, reportTime))
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
}

func TestBuildXLSX(t *testing.T) {
	data, err := BuildXLSX(testReport())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetSummary, sheetInventory, sheetReorder}, f.GetSheetList())

	label, err := f.GetCellValue(sheetSummary, "A4")
	require.NoError(t, err)
	assert.Equal(t, "Daily", label)

	rows, err := f.GetRows(sheetInventory)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "chips", rows[1][0])
	assert.Equal(t, "LOW", rows[1][7])

	reorder, err := f.GetRows(sheetReorder)
	require.NoError(t, err)
	require.Len(t, reorder, 2)
	assert.Equal(t, []string{"coke", "2", "8", "11"}, reorder[1])
}

func TestBuildPDF(t *testing.T) {
	data, err := BuildPDF(testReport())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRender_UnsupportedFormat(t *testing.T) {
	_, err := Render(Format("csv"), testReport())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
