// Package kpi aggregates classified transactions, pipeline deals, and budget
// rows into point-in-time and trailing-window financial metrics. Aggregation
// never fails on data quality: a malformed row degrades the output, it does
// not abort the computation.
package kpi

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/finweave/finweave/internal/classify"
	"github.com/finweave/finweave/internal/model"
)

// RunwayInfinite is reported instead of a division error when the burn rate
// is zero or negative.
const RunwayInfinite = 999

const topCategoryLimit = 5

// contractedPhaseKeywords marks deal phases counted as contracted pipeline.
var contractedPhaseKeywords = []string{
	"negotiation", "verhandlung", "closed", "won", "gewonnen",
	"contract", "vertrag", "abschluss",
}

// revenueCategoryPattern decides whether a budget category is revenue-like;
// everything else is treated as expense-like.
var revenueCategoryPattern = []string{
	"revenue", "umsatz", "einnahme", "sales", "erlös", "income",
}

// Window bounds a reporting period. Zero values leave the bound open.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) contains(t time.Time) bool {
	if t.IsZero() {
		// Rows without a usable date are excluded from windowed results.
		return w.Start.IsZero() && w.End.IsZero()
	}
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && t.After(w.End) {
		return false
	}
	return true
}

// Inputs carries the rows an aggregation run consumes.
type Inputs struct {
	Transactions []model.Transaction
	Deals        []model.Deal
	Budgets      []model.BudgetRow
}

// Aggregator computes KPI metrics using a classifier for taxonomy tags.
type Aggregator struct {
	classifier *classify.Classifier
}

// New creates an aggregator. A nil classifier falls back to the default
// dictionary, keeping the output deterministic.
func New(classifier *classify.Classifier) *Aggregator {
	if classifier == nil {
		classifier = classify.New(nil)
	}
	return &Aggregator{classifier: classifier}
}

// monthly is the per-month fold the trailing-window metrics read from.
type monthly struct {
	revenue      float64
	subscription float64
	expenses     float64 // absolute value of cogs + expense
}

// Compute derives the full KPI set for the window.
func (a *Aggregator) Compute(in Inputs, w Window) model.KPIMetrics {
	var m model.KPIMetrics

	months := make(map[string]*monthly)
	var monthKeys []string
	var revenue, cogs, otherExpenses float64
	var cash float64
	categoryTotals := make(map[string]float64)
	revenueClients := make(map[string]bool)

	for _, txn := range in.Transactions {
		amount := txn.Amount
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			amount = 0
		}
		cash += amount // all-time, not windowed

		if !w.contains(txn.Date) {
			continue
		}

		class := a.classifier.ClassifyTransaction(txn)
		key := monthKey(txn.Date)
		bucket := months[key]
		if bucket == nil {
			bucket = &monthly{}
			months[key] = bucket
			monthKeys = append(monthKeys, key)
		}

		switch class.Type {
		case model.TypeRevenue:
			revenue += amount
			bucket.revenue += amount
			if class.Subtype == model.SubtypeSubscription {
				bucket.subscription += amount
			}
			if name := normalizeName(txn.Description); name != "" {
				revenueClients[name] = true
			}
		case model.TypeCOGS:
			cogs += math.Abs(amount)
			bucket.expenses += math.Abs(amount)
		case model.TypeExpense:
			otherExpenses += math.Abs(amount)
			bucket.expenses += math.Abs(amount)
		}

		if txn.Category != "" {
			categoryTotals[txn.Category] += math.Abs(amount)
		}
	}

	sort.Strings(monthKeys)

	m.Revenue = revenue
	m.Expenses = cogs + otherExpenses
	m.CashBalance = cash

	m.MRR = computeMRR(months, monthKeys)
	m.ARR = m.MRR * 12

	currentNet, ltmNet := burnRates(months, monthKeys)
	m.BurnRate = math.Max(0, currentNet)
	m.BurnRateLTM = math.Max(0, ltmNet)
	if ltmNet != 0 {
		// The unclamped nets feed the variance, so cash-positive months
		// still register against the trailing average.
		m.BurnVsLTMPct = (currentNet - ltmNet) / math.Abs(ltmNet) * 100
	}

	m.RunwayMonths = runway(m.CashBalance, m.BurnRate)

	if revenue > 0 {
		m.GrossMarginPct = math.Max(0, (revenue-cogs)/revenue*100)
		m.NetMarginPct = (revenue - cogs - otherExpenses) / revenue * 100
	}

	m.CustomerCount = customerCount(in.Deals, revenueClients)
	m.PipelineValue = pipelineValue(in.Deals)
	m.TopCategories = topCategories(categoryTotals)

	return m
}

// computeMRR sums subscription revenue in the most recent month with data,
// falling back to that month's total revenue so MRR is never zero while
// revenue exists.
func computeMRR(months map[string]*monthly, keys []string) float64 {
	for i := len(keys) - 1; i >= 0; i-- {
		bucket := months[keys[i]]
		if bucket.revenue == 0 && bucket.subscription == 0 {
			continue
		}
		if bucket.subscription > 0 {
			return bucket.subscription
		}
		return bucket.revenue
	}
	return 0
}

// burnRates returns the unclamped net consumption for the most recent month
// and the trailing-12-month average ending at that month.
func burnRates(months map[string]*monthly, keys []string) (current, ltm float64) {
	if len(keys) == 0 {
		return 0, 0
	}
	latest := months[keys[len(keys)-1]]
	current = latest.expenses - latest.revenue

	start := len(keys) - 12
	if start < 0 {
		start = 0
	}
	var total float64
	span := keys[start:]
	for _, key := range span {
		bucket := months[key]
		total += bucket.expenses - bucket.revenue
	}
	return current, total / float64(len(span))
}

func runway(cash, burn float64) int {
	if burn <= 0 {
		return RunwayInfinite
	}
	months := int(math.Round(cash / burn))
	if months < 0 {
		return 0
	}
	return months
}

func customerCount(deals []model.Deal, revenueClients map[string]bool) int {
	if len(deals) > 0 {
		clients := make(map[string]bool)
		for _, deal := range deals {
			if name := normalizeName(deal.ClientName); name != "" {
				clients[name] = true
			}
		}
		return len(clients)
	}
	return len(revenueClients)
}

func pipelineValue(deals []model.Deal) float64 {
	var total float64
	for _, deal := range deals {
		phase := strings.ToLower(deal.Phase)
		for _, kw := range contractedPhaseKeywords {
			if strings.Contains(phase, kw) {
				total += deal.Amount
				break
			}
		}
	}
	return total
}

// topCategories rolls category totals into the top five, values rounded to
// whole units for compact reporting payloads. Amount descending, name
// ascending on ties, so the order is stable.
func topCategories(totals map[string]float64) []model.CategoryTotal {
	rollup := make([]model.CategoryTotal, 0, len(totals))
	for category, amount := range totals {
		rollup = append(rollup, model.CategoryTotal{
			Category: category,
			Amount:   math.Round(amount),
		})
	}
	sort.Slice(rollup, func(i, j int) bool {
		if rollup[i].Amount != rollup[j].Amount {
			return rollup[i].Amount > rollup[j].Amount
		}
		return rollup[i].Category < rollup[j].Category
	})
	if len(rollup) > topCategoryLimit {
		rollup = rollup[:topCategoryLimit]
	}
	return rollup
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}
