package classify

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/finweave/finweave/internal/model"
)

// Family is one keyword family of the taxonomy dictionary. Families are
// tested in slice order and the first match wins; that order ships as a
// compatibility fixture and extensions should append, not reorder.
type Family struct {
	Subtype  string   `json:"subtype"`
	Keywords []string `json:"keywords"`
}

// Dictionary is the bilingual keyword dictionary driving classification.
// It is a versionable data artifact: new locales or verticals are additive
// data changes, never algorithm changes.
type Dictionary struct {
	Revenue []Family `json:"revenue"`
	COGS    []string `json:"cogs"`
	Expense []Family `json:"expense"`
}

// DefaultDictionary returns the built-in English/German dictionary.
func DefaultDictionary() *Dictionary {
	return &Dictionary{
		Revenue: []Family{
			{Subtype: model.SubtypeSubscription, Keywords: []string{
				"subscription", "abo", "abonnement", "recurring", "wiederkehrend",
				"monthly", "monatlich", "mitglied", "membership", "retainer", "saas",
			}},
			{Subtype: model.SubtypeOneTime, Keywords: []string{
				"one-time", "einmalig", "einmalzahlung", "service", "dienstleistung",
				"project", "projekt", "beratung", "consulting", "workshop", "setup",
			}},
		},
		COGS: []string{
			"cogs", "wareneinsatz", "direct cost", "direkte kosten", "material",
			"einkauf", "procurement", "fulfillment", "versand", "shipping",
			"production", "produktion",
		},
		Expense: []Family{
			{Subtype: model.SubtypeSalaries, Keywords: []string{
				"salary", "salaries", "gehalt", "gehälter", "lohn", "löhne",
				"payroll", "personal", "staff", "sozialversicherung",
			}},
			{Subtype: model.SubtypeMarketing, Keywords: []string{
				"marketing", "werbung", "advertising", "ads", "google ads",
				"facebook", "kampagne", "campaign", "seo",
			}},
			{Subtype: model.SubtypeSoftware, Keywords: []string{
				"software", "saas", "lizenz", "license", "tool", "hosting",
				"cloud", "server", "domain", "it-kosten",
			}},
			{Subtype: model.SubtypeRent, Keywords: []string{
				"rent", "miete", "büro", "office", "nebenkosten", "utilities",
				"strom", "coworking",
			}},
			{Subtype: model.SubtypeTravel, Keywords: []string{
				"travel", "reise", "reisekosten", "flug", "flight", "hotel",
				"bahn", "train", "taxi", "mileage",
			}},
		},
	}
}

// LoadDictionary reads a dictionary from a JSON file, for locale or vertical
// extensions supplied outside the binary.
func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	var dict Dictionary
	if err := json.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary: %w", err)
	}
	if len(dict.Revenue) == 0 && len(dict.COGS) == 0 && len(dict.Expense) == 0 {
		return nil, fmt.Errorf("dictionary at %s defines no keyword families", path)
	}
	return &dict, nil
}
