package detect

import "github.com/finweave/finweave/internal/model"

// Header keyword sets for column role detection. Order matters: the first
// header matching any keyword of a field wins that field, and the field order
// below is the fixed detection order. The lists ship as data so new locales
// extend them without touching the algorithm.
var fieldKeywords = []struct {
	Field    model.StandardField
	Keywords []string
}{
	{model.FieldDate, []string{"date", "datum", "tag", "buchungstag", "valuta", "zeitpunkt"}},
	{model.FieldAmount, []string{"amount", "betrag", "summe", "wert", "umsatz", "value", "total", "preis"}},
	{model.FieldDescription, []string{"description", "beschreibung", "verwendungszweck", "text", "memo", "zweck", "buchungstext", "name"}},
	{model.FieldCategory, []string{"category", "kategorie", "typ", "art", "konto", "type"}},
}

// Category-name vocabularies for multi-category layout detection. A header
// matching any of these counts as a known category column.
var categoryColumnKeywords = []string{
	// Revenue subcategories
	"subscription", "abo", "abonnement", "recurring", "wiederkehrend",
	"one-time", "einmalig", "service", "dienstleistung",
	// COGS
	"cogs", "wareneinsatz", "direct cost", "direkte kosten", "material",
	// Expense subcategories
	"salaries", "gehälter", "gehalt", "lohn", "personal", "payroll",
	"marketing", "werbung", "advertising",
	"rent", "miete", "büro",
	"software", "lizenzen", "saas",
	"travel", "reisen", "reisekosten",
}

// Language detection keyword sets. Majority of header matches wins; a tie
// yields unknown.
var (
	germanHeaderKeywords  = []string{"datum", "betrag", "beschreibung", "verwendungszweck", "kategorie", "summe", "wert", "buchung", "miete", "gehalt", "umsatz", "einnahme", "ausgabe"}
	englishHeaderKeywords = []string{"date", "amount", "description", "category", "value", "total", "payment", "revenue", "expense", "income", "cost", "price"}
)

// Recognized currency symbols, checked against sampled amount values.
var currencySymbols = []string{"€", "$", "£"}

// defaultCurrencySymbol is used when no symbol appears in the sample.
const defaultCurrencySymbol = "€"
