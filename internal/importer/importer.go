package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/wordflash/wordflash/internal/models"
	"github.com/xuri/excelize/v2"
)

// Format is a supported bulk import file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var ErrUnsupportedFormat = errors.New("importer: unsupported file format")

// FormatFromFilename picks the format from the file extension.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// Row is one card parsed from a file. Line is 1-based.
type Row struct {
	Line      int
	Foreign   string
	Native    string
	Direction models.Direction
}

// RowError describes a line that could not be turned into a card.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Result holds the valid rows and the per-line problems of one file.
type Result struct {
	Rows   []Row
	Errors []RowError
}

// Parse reads foreign,native[,direction] records. A first line whose first
// two cells are a foreign/native header is skipped.
func Parse(r io.Reader, format Format) (*Result, error) {
	var records []record
	var err error
	switch format {
	case FormatCSV:
		records, err = readCSV(r)
	case FormatXLSX:
		records, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for i, rec := range records {
		if i == 0 && isHeader(rec.cells) {
			continue
		}
		if isBlank(rec.cells) {
			continue
		}
		row, rowErr := parseRecord(rec.line, rec.cells)
		if rowErr != nil {
			res.Errors = append(res.Errors, *rowErr)
			continue
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

type record struct {
	line  int
	cells []string
}

func readCSV(r io.Reader) ([]record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var records []record
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, cells: cells})
	}
	return records, nil
}

func readXLSX(r io.Reader) ([]record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("open xlsx: workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx rows: %w", err)
	}
	records := make([]record, len(rows))
	for i, cells := range rows {
		records[i] = record{line: i + 1, cells: cells}
	}
	return records, nil
}

func cell(cells []string, i int) string {
	if i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func isHeader(cells []string) bool {
	return strings.EqualFold(cell(cells, 0), "foreign") && strings.EqualFold(cell(cells, 1), "native")
}

func parseRecord(line int, cells []string) (Row, *RowError) {
	row := Row{
		Line:      line,
		Foreign:   cell(cells, 0),
		Native:    cell(cells, 1),
		Direction: models.ForeignToNative,
	}
	if row.Foreign == "" || row.Native == "" {
		return Row{}, &RowError{Line: line, Reason: "both foreign and native text are required"}
	}
	if d := cell(cells, 2); d != "" {
		row.Direction = models.Direction(strings.ToLower(d))
		if !row.Direction.Valid() {
			return Row{}, &RowError{Line: line, Reason: fmt.Sprintf("unknown direction %q", d)}
		}
	}
	return row, nil
}
