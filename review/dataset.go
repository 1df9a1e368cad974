package review

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadDataset reads an .xlsx, .csv or .tsv file whose first row is the header.
func LoadDataset(path string) (*Table, error) {
	header, rows, err := readSheet(path)
	if err != nil {
		return nil, &LoadError{What: "dataset", Path: path, Err: err}
	}
	return NewTable(header, rows), nil
}

func readSheet(path string) ([]string, [][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, err
	}
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		records, err = readWorkbook(path)
	case ".csv":
		records, err = readDelimited(path, ',')
	case ".tsv":
		records, err = readDelimited(path, '\t')
	default:
		return nil, nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, errors.New("no header row")
	}
	if isBlankRow(records[0]) {
		return nil, nil, errors.New("header row is empty")
	}
	rows := make([][]string, 0, len(records)-1)
	width := len(records[0])
	for _, row := range records[1:] {
		if isBlankRow(row) {
			continue
		}
		width = max(width, len(row))
		rows = append(rows, row)
	}
	return headerNames(records[0], width), rows, nil
}

// headerNames widens header to width columns. Cells past the header or under
// a blank header cell are kept as "Unnamed: N", N being the zero-based column.
func headerNames(header []string, width int) []string {
	out := make([]string, width)
	copy(out, header)
	for i, name := range out {
		if cleanCell(name) == "" {
			out[i] = fmt.Sprintf("Unnamed: %d", i)
		}
	}
	return out
}

func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func readDelimited(path string, comma rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	reader := csv.NewReader(f)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cleanCell(cell) != "" {
			return false
		}
	}
	return true
}
