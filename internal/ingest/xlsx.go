package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/finweave/finweave/internal/common"
	"github.com/finweave/finweave/internal/model"
)

// ReadXLSX decodes one sheet of an XLSX stream into a raw table. An empty
// sheetName selects the first sheet.
func ReadXLSX(r io.Reader, fileName, sheetName string) (model.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("failed to open XLSX %s: %w", fileName, err)
	}
	defer func() { _ = f.Close() }()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}

	records, err := f.GetRows(sheetName)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("failed to read sheet %q of %s: %w", sheetName, fileName, err)
	}
	if len(records) == 0 {
		return model.RawTable{}, common.NewUserError(
			fmt.Sprintf("sheet %q of %s contains no rows", sheetName, fileName), common.ErrEmptyInput)
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

// SheetNames lists the sheets of an XLSX stream, for multi-sheet uploads.
func SheetNames(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX: %w", err)
	}
	defer func() { _ = f.Close() }()
	return f.GetSheetList(), nil
}
