package etl

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook names one input file and the sheet read from it.
type Workbook struct {
	File  string
	Sheet string
}

var (
	CaseWorkbook      = Workbook{File: "case_table.xlsx", Sheet: "Case_Table_2026-Feb-21_1952"}
	DocketWorkbook    = Workbook{File: "docket_table.xlsx", Sheet: "Docket_Table"}
	DocumentWorkbook  = Workbook{File: "document_table.xlsx", Sheet: "Document_Table"}
	SecondaryWorkbook = Workbook{File: "secondary_source.xlsx", Sheet: "Secondary_Source_Coverage_Table"}
)

// ReadSheet parses the first row of sheet as headers and returns every
// non-empty row after it. Cell values are raw, so dates arrive as serials.
func ReadSheet(r io.Reader, sheet string) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	grid, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(grid) == 0 {
		return nil, nil
	}

	header := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(grid)-1)
	for i, values := range grid[1:] {
		cells := make(map[string]string, len(values))
		for j, v := range values {
			if j < len(header) {
				cells[header[j]] = v
			}
		}

		// spreadsheet line numbers are 1-based and include the header
		row := NewRow(i+2, cells)
		if row.Empty() {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}
