// Package detect infers the structure of uploaded tabular data: column roles,
// locale, date and amount conventions. Detection is a pure function of the
// sampled rows; ambiguous results are surfaced for confirmation, not errors.
package detect

import (
	"regexp"
	"strings"

	"github.com/finweave/finweave/internal/common"
	"github.com/finweave/finweave/internal/model"
)

// sampleSize limits how many rows are carried in the detection result and how
// many amount values are inspected for a currency symbol.
const sampleSize = 5

// confirmationThreshold is the minimum confidence a core field mapping needs
// before normalization may proceed without user confirmation.
const confirmationThreshold = 0.8

// Confidence assigned to a header that equals a keyword versus one that
// merely contains it.
const (
	exactMatchConfidence     = 1.0
	substringMatchConfidence = 0.85
)

var dateFormatPatterns = []struct {
	Pattern *regexp.Regexp
	Format  string
}{
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), model.DateFormatISO},
	{regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`), model.DateFormatDMYDot},
	{regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`), model.DateFormatMDY},
	{regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`), model.DateFormatDMYDash},
}

// Detect examines a raw table and infers its structure and column mappings.
// At least one row is required.
func Detect(table model.RawTable) (*model.DetectionResult, error) {
	if len(table.Rows) == 0 {
		return nil, common.NewUserError("uploaded file contains no data rows", common.ErrEmptyInput)
	}

	mappings := detectColumns(table.Headers)

	structure := model.DataStructure{
		Type:           detectCategoryLayout(table.Headers, mappings),
		Language:       detectLanguage(table.Headers),
		CurrencySymbol: defaultCurrencySymbol,
		DateFormat:     model.DateFormatUnknown,
	}

	for _, m := range mappings {
		switch m.StandardField {
		case model.FieldDate:
			structure.DateColumn = m.OriginalHeader
		case model.FieldAmount:
			structure.AmountColumn = m.OriginalHeader
		case model.FieldDescription:
			structure.DescriptionColumn = m.OriginalHeader
		}
	}

	if structure.DateColumn != "" {
		structure.DateFormat = detectDateFormat(table.Rows[0][structure.DateColumn])
	}
	if structure.AmountColumn != "" {
		structure.CurrencySymbol = detectCurrencySymbol(table.Rows, structure.AmountColumn)
	}

	sample := table.Rows
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}

	return &model.DetectionResult{
		Structure:             structure,
		SampleData:            sample,
		SuggestedMappings:     mappings,
		NeedsUserConfirmation: needsConfirmation(structure, mappings),
	}, nil
}

// detectColumns assigns a standard field to the first header matching any of
// the field's keywords. Header iteration preserves input column order, so
// ties resolve deterministically in favor of the leftmost column.
func detectColumns(headers []string) []model.ColumnMapping {
	var mappings []model.ColumnMapping
	claimed := make(map[string]bool)

	for _, fk := range fieldKeywords {
		for _, header := range headers {
			if claimed[header] {
				continue
			}
			confidence, ok := matchHeader(header, fk.Keywords)
			if !ok {
				continue
			}
			mappings = append(mappings, model.ColumnMapping{
				OriginalHeader: header,
				StandardField:  fk.Field,
				Confidence:     confidence,
				Detected:       true,
			})
			claimed[header] = true
			break
		}
	}

	// In multi-category layouts each known category column maps on its own.
	for _, header := range headers {
		if claimed[header] {
			continue
		}
		if _, ok := matchHeader(header, categoryColumnKeywords); ok {
			mappings = append(mappings, model.ColumnMapping{
				OriginalHeader: header,
				StandardField:  model.FieldCategoryColumn,
				Confidence:     substringMatchConfidence,
				Detected:       true,
			})
			claimed[header] = true
		}
	}

	return mappings
}

func matchHeader(header string, keywords []string) (float64, bool) {
	lower := strings.ToLower(strings.TrimSpace(header))
	for _, kw := range keywords {
		if lower == kw {
			return exactMatchConfidence, true
		}
		if strings.Contains(lower, kw) {
			return substringMatchConfidence, true
		}
	}
	return 0, false
}

// detectCategoryLayout classifies the sheet as single-category when a generic
// category column exists, multi-category when more than two headers match
// known category vocabularies, and unknown otherwise.
func detectCategoryLayout(headers []string, mappings []model.ColumnMapping) model.CategoryLayout {
	categoryColumns := 0
	for _, m := range mappings {
		switch m.StandardField {
		case model.FieldCategory:
			return model.LayoutSingleCategory
		case model.FieldCategoryColumn:
			categoryColumns++
		}
	}
	if categoryColumns > 2 {
		return model.LayoutMultiCategory
	}
	return model.LayoutUnknown
}

func detectLanguage(headers []string) model.Language {
	var german, english int
	for _, header := range headers {
		lower := strings.ToLower(header)
		for _, kw := range germanHeaderKeywords {
			if strings.Contains(lower, kw) {
				german++
				break
			}
		}
		for _, kw := range englishHeaderKeywords {
			if strings.Contains(lower, kw) {
				english++
				break
			}
		}
	}
	switch {
	case german > english:
		return model.LanguageGerman
	case english > german:
		return model.LanguageEnglish
	default:
		return model.LanguageUnknown
	}
}

func detectDateFormat(value string) string {
	value = strings.TrimSpace(value)
	for _, p := range dateFormatPatterns {
		if p.Pattern.MatchString(value) {
			return p.Format
		}
	}
	return model.DateFormatUnknown
}

func detectCurrencySymbol(rows []map[string]string, amountColumn string) string {
	limit := len(rows)
	if limit > sampleSize {
		limit = sampleSize
	}
	for i := 0; i < limit; i++ {
		value := rows[i][amountColumn]
		for _, symbol := range currencySymbols {
			if strings.Contains(value, symbol) {
				return symbol
			}
		}
	}
	return defaultCurrencySymbol
}

// needsConfirmation implements the hard gate: normalization must not proceed
// silently when any core field is weak or the sheet's shape is unresolved.
func needsConfirmation(structure model.DataStructure, mappings []model.ColumnMapping) bool {
	if structure.Language == model.LanguageUnknown || structure.Type == model.LayoutUnknown {
		return true
	}

	coreDetected := 0
	for _, m := range mappings {
		switch m.StandardField {
		case model.FieldDate, model.FieldAmount, model.FieldDescription:
			coreDetected++
			if m.Confidence < confirmationThreshold {
				return true
			}
		}
	}
	return coreDetected < 3
}
