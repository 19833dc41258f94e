// Package classify maps transactions onto the standard accounting taxonomy.
// Classification is sign first, then keyword: the amount's sign restricts the
// candidate types before any text is consulted. The whole package is a pure
// function of its inputs, which is what makes downstream KPIs reproducible.
package classify

import (
	"strings"

	"github.com/finweave/finweave/internal/model"
)

// Classifier classifies transactions against a keyword dictionary.
type Classifier struct {
	dict *Dictionary
}

// New creates a classifier. A nil dictionary falls back to the default.
func New(dict *Dictionary) *Classifier {
	if dict == nil {
		dict = DefaultDictionary()
	}
	return &Classifier{dict: dict}
}

// Classify tags a transaction with its taxonomy entry. Positive amounts are
// revenue, negative amounts are COGS or expense, zero defaults to
// expense/other. Within a type, keyword families are tested in dictionary
// order against the lower-cased category and description; first match wins.
func (c *Classifier) Classify(description, category string, amount float64) model.Classification {
	text := strings.ToLower(category) + " " + strings.ToLower(description)

	if amount > 0 {
		for _, family := range c.dict.Revenue {
			if containsAny(text, family.Keywords) {
				return model.Classification{Type: model.TypeRevenue, Subtype: family.Subtype}
			}
		}
		return model.Classification{Type: model.TypeRevenue, Subtype: model.SubtypeOther}
	}

	if amount < 0 {
		if containsAny(text, c.dict.COGS) {
			return model.Classification{Type: model.TypeCOGS, Subtype: model.SubtypeDirect}
		}
		for _, family := range c.dict.Expense {
			if containsAny(text, family.Keywords) {
				return model.Classification{Type: model.TypeExpense, Subtype: family.Subtype}
			}
		}
		return model.Classification{Type: model.TypeExpense, Subtype: model.SubtypeOther}
	}

	return model.Classification{Type: model.TypeExpense, Subtype: model.SubtypeOther}
}

// ClassifyTransaction is a convenience wrapper over Classify.
func (c *Classifier) ClassifyTransaction(txn model.Transaction) model.Classification {
	return c.Classify(txn.Description, txn.Category, txn.Amount)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
