package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
)

// ReadCSV reads a CSV file into a Table. The first row is the header.
// Records with a deviating field count are tolerated (the reader is lenient);
// trailing shortfalls surface as empty cells during normalization.
func ReadCSV(path string) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return Table{}, fmt.Errorf("CSV file %q is empty", path)
		}
		return Table{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("failed to read CSV record: %w", err)
		}
		records = append(records, rec)
	}

	log.Debug().Str("path", path).Int("records", len(records)).Msg("CSV file read")
	return Table{Header: header, Records: records}, nil
}
