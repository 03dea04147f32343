package importer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordflash/wordflash/internal/importer"
	"github.com/wordflash/wordflash/internal/models"
	"github.com/xuri/excelize/v2"
)

func TestFormatFromFilename(t *testing.T) {
	tests := []struct {
		name    string
		want    importer.Format
		wantErr bool
	}{
		{"words.csv", importer.FormatCSV, false},
		{"Words.XLSX", importer.FormatXLSX, false},
		{"words.txt", "", true},
		{"words", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := importer.FormatFromFilename(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, importer.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_CSV(t *testing.T) {
	input := strings.Join([]string{
		"foreign,native,direction",
		"der Hund,dog",
		"die Katze, cat ,native-foreign",
		"",
		"das Haus,",
		"das Brot,bread,sideways",
	}, "\n")

	res, err := importer.Parse(strings.NewReader(input), importer.FormatCSV)
	require.NoError(t, err)

	require.Len(t, res.Rows, 2)
	assert.Equal(t, importer.Row{Line: 2, Foreign: "der Hund", Native: "dog", Direction: models.ForeignToNative}, res.Rows[0])
	assert.Equal(t, importer.Row{Line: 3, Foreign: "die Katze", Native: "cat", Direction: models.NativeToForeign}, res.Rows[1])

	require.Len(t, res.Errors, 2)
	assert.Equal(t, 5, res.Errors[0].Line)
	assert.Equal(t, 6, res.Errors[1].Line)
	assert.Contains(t, res.Errors[1].Error(), "sideways")
}

func TestParse_CSVWithoutHeader(t *testing.T) {
	res, err := importer.Parse(strings.NewReader("der Hund,dog\n"), importer.FormatCSV)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, 1, res.Rows[0].Line)
}

func TestParse_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Foreign", "Native"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"der Apfel", "apple"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"die Birne", "pear", "native-foreign"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	res, err := importer.Parse(bytes.NewReader(buf.Bytes()), importer.FormatXLSX)
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "der Apfel", res.Rows[0].Foreign)
	assert.Equal(t, models.NativeToForeign, res.Rows[1].Direction)
}

func TestParse_InvalidXLSX(t *testing.T) {
	_, err := importer.Parse(strings.NewReader("not a workbook"), importer.FormatXLSX)
	assert.Error(t, err)
}

func TestParse_UnknownFormat(t *testing.T) {
	_, err := importer.Parse(strings.NewReader(""), importer.Format("ods"))
	assert.ErrorIs(t, err, importer.ErrUnsupportedFormat)
}
