package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okian/tracker/internal/domain/model"
)

// ImportWorkbook reads student records from the first sheet of an XLSX
// workbook. The first row is a header and is skipped, as are blank rows.
// Columns follow model.Headers; surplus columns are kept as extra cells.
func ImportWorkbook(r io.Reader) ([]model.StudentRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrEmptyWorkbook
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	out := make([]model.StudentRecord, 0, len(rows))
	for i, row := range rows {
		if i == 0 || blankRow(row) {
			continue
		}
		out = append(out, model.RecordFromCells(row))
	}
	return out, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
