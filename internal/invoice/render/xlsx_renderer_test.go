package render

import (
	"bytes"
	"context"
	"strconv"
	"testing"

	"github.com/smallbiznis/rentflow/internal/rental/rentaltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXRenderer(t *testing.T) {
	opts := rentaltest.DefaultOptions()
	opts.HasGas = false
	doc := composeDocument(t, "pl", opts)

	out, err := NewXLSXRenderer().Render(context.Background(), doc)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	number, err := f.GetCellValue(xlsxSummarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, doc.Number, number)

	rows, err := f.GetRows(xlsxItemsSheet)
	require.NoError(t, err)
	require.Len(t, rows, len(doc.Items)+1)
	assert.Equal(t, "Lp.", rows[0][0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "Czynsz najmu", rows[1][1])
	assert.Equal(t, "Razem", rows[len(rows)-1][1])

	last := len(doc.Items) + 1
	cell, err := excelize.CoordinatesToCellName(9, last)
	require.NoError(t, err)
	raw, err := f.GetCellValue(xlsxItemsSheet, cell, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	gross, err := strconv.ParseFloat(raw, 64)
	require.NoError(t, err)
	assert.InDelta(t, doc.Total.InexactFloat64(), gross, 0.001)
}

func TestXLSXRenderer_ContentType(t *testing.T) {
	r := NewXLSXRenderer()
	assert.Equal(t, FormatXLSX, r.Format())
	assert.Contains(t, r.ContentType(), "spreadsheetml")
}

func TestStyleRow(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	style, err := f.NewStyle(&excelize.Style{NumFmt: xlsxAmountFormat})
	require.NoError(t, err)

	require.NoError(t, styleRow(f, "Sheet1", 2, 5, 9, style))
	got, err := f.GetCellStyle("Sheet1", "I2")
	require.NoError(t, err)
	assert.Equal(t, style, got)

	assert.Error(t, styleRow(f, "Sheet1", 0, 1, 1, style))
	assert.Error(t, styleRow(f, "Missing", 1, 1, 1, style))
}
