package model

// StandardField identifies the semantic role of an uploaded column.
type StandardField string

// Standard fields recognized by the structure detector.
const (
	FieldDate        StandardField = "date"
	FieldAmount      StandardField = "amount"
	FieldDescription StandardField = "description"
	FieldCategory    StandardField = "category"
	// FieldCategoryColumn flags a per-column category in multi-category layouts,
	// where each recognized category is its own amount column.
	FieldCategoryColumn StandardField = "category_column"
)

// CategoryLayout describes how categories are encoded in a sheet.
type CategoryLayout string

// Category layout values.
const (
	LayoutSingleCategory CategoryLayout = "single-category"
	LayoutMultiCategory  CategoryLayout = "multi-category"
	LayoutUnknown        CategoryLayout = "unknown"
)

// Language is the detected header language of a sheet.
type Language string

// Detected languages.
const (
	LanguageEnglish Language = "en"
	LanguageGerman  Language = "de"
	LanguageUnknown Language = "unknown"
)

// Date format patterns the detector recognizes.
const (
	DateFormatISO     = "YYYY-MM-DD"
	DateFormatDMYDot  = "DD.MM.YYYY"
	DateFormatMDY     = "MM/DD/YYYY"
	DateFormatDMYDash = "DD-MM-YYYY"
	DateFormatUnknown = "unknown"
)

// RawTable is an uploaded sheet decoded into headers and rows. It exists only
// during detection and normalization and is never persisted as-is.
type RawTable struct {
	FileName string
	Headers  []string
	Rows     []map[string]string
}

// ColumnMapping associates an uploaded header with a standard field.
// Immutable once confirmed.
type ColumnMapping struct {
	OriginalHeader string
	StandardField  StandardField
	Confidence     float64
	Detected       bool
}

// DataStructure captures the inferred shape and format conventions of a sheet.
type DataStructure struct {
	Type              CategoryLayout
	Language          Language
	DateFormat        string
	CurrencySymbol    string
	AmountColumn      string
	DateColumn        string
	DescriptionColumn string
}

// DetectionResult is the full output of structure detection over a sheet.
// When NeedsUserConfirmation is set, normalization must not proceed silently.
type DetectionResult struct {
	Structure             DataStructure
	SampleData            []map[string]string
	SuggestedMappings     []ColumnMapping
	NeedsUserConfirmation bool
}
