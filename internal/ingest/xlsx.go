package ingest

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads the first sheet of an XLSX workbook into a Table. The first
// row is the header. Rows are streamed rather than loaded wholesale.
func ReadXLSX(path string) (Table, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer file.Close()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		sheets := file.GetSheetList()
		if len(sheets) == 0 {
			return Table{}, fmt.Errorf("XLSX file %q has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := file.Rows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read XLSX rows: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return Table{}, fmt.Errorf("XLSX file %q is empty", path)
	}
	header, err := rows.Columns()
	if err != nil {
		return Table{}, fmt.Errorf("failed to read XLSX header: %w", err)
	}

	var records [][]string
	for rows.Next() {
		rec, err := rows.Columns()
		if err != nil {
			return Table{}, fmt.Errorf("failed to read XLSX record: %w", err)
		}
		records = append(records, rec)
	}

	log.Debug().Str("path", path).Str("sheet", sheet).Int("records", len(records)).Msg("XLSX file read")
	return Table{Header: header, Records: records}, nil
}
