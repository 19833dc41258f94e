package kpi

import (
	"sort"
	"strings"

	"github.com/finweave/finweave/internal/model"
)

// BudgetVariances compares each budget row against the actuals of its month.
// Budget categories are matched to transactions by keyword: revenue-like
// categories take the month's classified revenue, everything else takes the
// expense subtype the category name itself classifies into. A category with
// zero planned value reports 0% variance rather than a division error.
func (a *Aggregator) BudgetVariances(in Inputs, w Window) []model.BudgetVariance {
	type actuals struct {
		revenue   float64
		bySubtype map[string]float64
		expenses  float64
	}
	byMonth := make(map[string]*actuals)

	for _, txn := range in.Transactions {
		if txn.Date.IsZero() || !w.contains(txn.Date) {
			continue
		}
		key := monthKey(txn.Date)
		bucket := byMonth[key]
		if bucket == nil {
			bucket = &actuals{bySubtype: make(map[string]float64)}
			byMonth[key] = bucket
		}

		class := a.classifier.ClassifyTransaction(txn)
		switch class.Type {
		case model.TypeRevenue:
			bucket.revenue += txn.Amount
		case model.TypeCOGS:
			bucket.expenses += abs(txn.Amount)
			bucket.bySubtype[model.SubtypeDirect] += abs(txn.Amount)
		case model.TypeExpense:
			bucket.expenses += abs(txn.Amount)
			bucket.bySubtype[class.Subtype] += abs(txn.Amount)
		}
	}

	var variances []model.BudgetVariance
	for _, row := range in.Budgets {
		bucket := byMonth[row.Month]

		var actual float64
		if bucket != nil {
			if isRevenueCategory(row.Category) {
				actual = bucket.revenue
			} else {
				// Classify the budget category name as if it were a cost row
				// to find the matching expense subtype.
				class := a.classifier.Classify(row.Category, row.Category, -1)
				if class.Type == model.TypeCOGS {
					actual = bucket.bySubtype[model.SubtypeDirect]
				} else if class.Subtype != model.SubtypeOther {
					actual = bucket.bySubtype[class.Subtype]
				} else {
					actual = bucket.expenses
				}
			}
		}

		variance := actual - row.Value
		pct := 0.0
		if row.Value != 0 {
			pct = variance / row.Value * 100
		}
		variances = append(variances, model.BudgetVariance{
			Category:    row.Category,
			Month:       row.Month,
			Planned:     row.Value,
			Actual:      actual,
			Variance:    variance,
			VariancePct: pct,
		})
	}

	sort.Slice(variances, func(i, j int) bool {
		if variances[i].Month != variances[j].Month {
			return variances[i].Month < variances[j].Month
		}
		return variances[i].Category < variances[j].Category
	})
	return variances
}

func isRevenueCategory(category string) bool {
	lower := strings.ToLower(category)
	for _, kw := range revenueCategoryPattern {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
