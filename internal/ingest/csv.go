// Package ingest decodes upload bytes (CSV, XLSX, OFX) into the raw tables
// the structure detector consumes. Size and type validation of uploads is
// the transport's responsibility; this package only decodes.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/finweave/finweave/internal/common"
	"github.com/finweave/finweave/internal/model"
)

// ReadCSV decodes a CSV stream into a raw table. The first record is the
// header row; short rows are tolerated and missing cells stay absent.
func ReadCSV(r io.Reader, fileName string) (model.RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return model.RawTable{}, fmt.Errorf("failed to read CSV %s: %w", fileName, err)
	}
	if len(records) == 0 {
		return model.RawTable{}, common.NewUserError(
			fmt.Sprintf("%s contains no rows", fileName), common.ErrEmptyInput)
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, value := range record {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(value)
			}
		}
		rows = append(rows, row)
	}

	return model.RawTable{
		FileName: fileName,
		Headers:  headers,
		Rows:     rows,
	}, nil
}
