package detect

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finweave/finweave/internal/model"
)

// NormalizeResult holds the normalized rows plus the count of rows dropped
// for missing amounts or unparseable dates, retained for observability.
type NormalizeResult struct {
	Transactions []model.Transaction
	Dropped      int
}

// Normalize converts confirmed mappings and structure into transactions.
// Rows missing a resolved amount or date are dropped silently; a numeric
// parse failure on a present value yields 0 rather than an error. A non-nil
// progress hook is invoked once per source row, for progress reporting.
func Normalize(table model.RawTable, mappings []model.ColumnMapping, structure model.DataStructure, progress func(row int)) NormalizeResult {
	var result NormalizeResult

	categoryColumn := ""
	var categoryColumns []string
	for _, m := range mappings {
		switch m.StandardField {
		case model.FieldCategory:
			categoryColumn = m.OriginalHeader
		case model.FieldCategoryColumn:
			categoryColumns = append(categoryColumns, m.OriginalHeader)
		}
	}

	for i, row := range table.Rows {
		if progress != nil {
			progress(i)
		}
		date, dateOK := ParseDate(row[structure.DateColumn], structure.DateFormat)
		if !dateOK {
			result.Dropped++
			continue
		}
		reference := fmt.Sprintf("%s#%d", table.FileName, i+1)

		if structure.Type == model.LayoutMultiCategory {
			emitted := false
			for _, column := range categoryColumns {
				amount, ok := ParseAmount(row[column])
				if !ok {
					continue
				}
				emitted = true
				description := row[structure.DescriptionColumn]
				if description == "" {
					description = column
				}
				result.Transactions = append(result.Transactions, model.Transaction{
					ID:          uuid.NewString(),
					Date:        date,
					Description: description,
					Category:    column,
					Amount:      amount,
					Reference:   reference,
				})
			}
			if !emitted {
				result.Dropped++
			}
			continue
		}

		amount, ok := ParseAmount(row[structure.AmountColumn])
		if !ok {
			result.Dropped++
			continue
		}
		result.Transactions = append(result.Transactions, model.Transaction{
			ID:          uuid.NewString(),
			Date:        date,
			Description: row[structure.DescriptionColumn],
			Category:    row[categoryColumn],
			Amount:      amount,
			Reference:   reference,
		})
	}

	return result
}

// ParseAmount parses a raw amount cell under mixed locale conventions.
// When both separators appear, the one further right is the decimal
// separator ("1.234,56" is European, "1,234.56" is US). A lone comma is a
// decimal separator when the trailing group has at most two digits, a
// thousands separator otherwise. An empty cell reports false; a present
// but unparseable value parses as 0.
func ParseAmount(raw string) (float64, bool) {
	cleaned := raw
	for _, symbol := range currencySymbols {
		cleaned = strings.ReplaceAll(cleaned, symbol, "")
	}
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return 0, false
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasComma:
		idx := strings.LastIndex(cleaned, ",")
		if len(cleaned)-idx-1 <= 2 {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, true
	}
	f, _ := value.Float64()
	return f, true
}

// ParseDate parses a raw date cell. The two ambiguous formats are split
// explicitly; everything else falls through to generic layouts. An
// unparseable date reports false and the row is dropped by the caller.
func ParseDate(raw, format string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	switch format {
	case model.DateFormatDMYDot:
		return splitDate(raw, ".", 0, 1, 2)
	case model.DateFormatMDY:
		return splitDate(raw, "/", 1, 0, 2)
	}

	layouts := []string{"2006-01-02", "2-1-2006", "2006/01/02", time.RFC3339}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// splitDate assembles a date from separator-delimited parts at the given
// day/month/year indices.
func splitDate(raw, sep string, dayIdx, monthIdx, yearIdx int) (time.Time, bool) {
	parts := strings.Split(raw, sep)
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, err1 := strconv.Atoi(parts[dayIdx])
	month, err2 := strconv.Atoi(parts[monthIdx])
	year, err3 := strconv.Atoi(parts[yearIdx])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}
