// Package ingest reads raw event-log tables from files. It knows nothing
// about event semantics; eventlog.Normalize owns those.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Table is a raw tabular payload: one header row plus data records.
type Table struct {
	Header  []string
	Records [][]string
}

// ReadFile dispatches on the file extension. CSV and XLSX are supported.
func ReadFile(path string) (Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return Table{}, fmt.Errorf("unsupported file type %q (expected .csv or .xlsx)", filepath.Ext(path))
	}
}
