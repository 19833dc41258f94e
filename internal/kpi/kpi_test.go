package kpi

import (
	"math"
	"testing"
	"time"

	"github.com/finweave/finweave/internal/model"
)

func txn(date time.Time, description, category string, amount float64) model.Transaction {
	return model.Transaction{
		Date:        date,
		Description: description,
		Category:    category,
		Amount:      amount,
	}
}

func TestCompute_RevenueExceedsExpenses(t *testing.T) {
	month := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	in := Inputs{
		Transactions: []model.Transaction{
			txn(month, "Acme GmbH", "subscription", 1000),
			txn(month, "Vermieter", "rent", -600),
		},
	}

	m := New(nil).Compute(in, Window{})

	if m.MRR != 1000 {
		t.Errorf("MRR = %v, want 1000", m.MRR)
	}
	if m.ARR != 12000 {
		t.Errorf("ARR = %v, want 12000", m.ARR)
	}
	if m.BurnRate != 0 {
		t.Errorf("BurnRate = %v, want 0 when revenue covers expenses", m.BurnRate)
	}
	if m.RunwayMonths != RunwayInfinite {
		t.Errorf("RunwayMonths = %v, want sentinel %d", m.RunwayMonths, RunwayInfinite)
	}
	if m.Revenue != 1000 {
		t.Errorf("Revenue = %v, want 1000", m.Revenue)
	}
	if m.Expenses != 600 {
		t.Errorf("Expenses = %v, want 600", m.Expenses)
	}
	if m.NetMarginPct != 40 {
		t.Errorf("NetMarginPct = %v, want 40", m.NetMarginPct)
	}
	if m.GrossMarginPct != 100 {
		t.Errorf("GrossMarginPct = %v, want 100 with no COGS", m.GrossMarginPct)
	}
	if m.CashBalance != 400 {
		t.Errorf("CashBalance = %v, want 400", m.CashBalance)
	}
}

func TestCompute_BurnAndRunway(t *testing.T) {
	// Seed cash in an early month, then burn 2000/month.
	in := Inputs{
		Transactions: []model.Transaction{
			txn(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), "Seed", "einnahme", 12000),
			txn(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "Gehalt", "salaries", -2000),
			txn(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "Gehalt", "salaries", -2000),
		},
	}

	m := New(nil).Compute(in, Window{})

	if m.BurnRate != 2000 {
		t.Errorf("BurnRate = %v, want 2000 (latest month)", m.BurnRate)
	}
	if m.CashBalance != 8000 {
		t.Errorf("CashBalance = %v, want 8000", m.CashBalance)
	}
	if m.RunwayMonths != 4 {
		t.Errorf("RunwayMonths = %v, want 4", m.RunwayMonths)
	}
	// LTM average over the three observed months: (-12000+2000+2000)/3.
	wantLTM := 0.0
	if m.BurnRateLTM != wantLTM {
		t.Errorf("BurnRateLTM = %v, want %v (negative average clamps)", m.BurnRateLTM, wantLTM)
	}
}

func TestCompute_NegativeCashZeroRunway(t *testing.T) {
	in := Inputs{
		Transactions: []model.Transaction{
			txn(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), "Miete", "rent", -500),
		},
	}

	m := New(nil).Compute(in, Window{})

	if m.BurnRate != 500 {
		t.Errorf("BurnRate = %v, want 500", m.BurnRate)
	}
	if m.RunwayMonths != 0 {
		t.Errorf("RunwayMonths = %v, want 0 with negative cash", m.RunwayMonths)
	}
}

func TestCompute_MRRFallsBackToMonthlyRevenue(t *testing.T) {
	in := Inputs{
		Transactions: []model.Transaction{
			txn(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), "Workshop", "", 2500),
		},
	}

	m := New(nil).Compute(in, Window{})
	if m.MRR != 2500 {
		t.Errorf("MRR = %v, want 2500 (total revenue fallback)", m.MRR)
	}
}

func TestCompute_MRRUsesMostRecentMonthWithData(t *testing.T) {
	in := Inputs{
		Transactions: []model.Transaction{
			txn(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "Abo Kunde A", "", 500),
			txn(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "Abo Kunde A", "", 500),
			txn(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "Abo Kunde B", "", 300),
		},
	}

	m := New(nil).Compute(in, Window{})
	if m.MRR != 800 {
		t.Errorf("MRR = %v, want 800 from the latest month", m.MRR)
	}
}

func TestCompute_Margins(t *testing.T) {
	month := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	in := Inputs{
		Transactions: []model.Transaction{
			txn(month, "Abo", "", 1000),
			txn(month, "Wareneinsatz", "", -400),
			txn(month, "Gehalt", "", -900),
		},
	}

	m := New(nil).Compute(in, Window{})

	if m.GrossMarginPct != 60 {
		t.Errorf("GrossMarginPct = %v, want 60", m.GrossMarginPct)
	}
	if m.NetMarginPct != -30 {
		t.Errorf("NetMarginPct = %v, want -30 (losses stay visible)", m.NetMarginPct)
	}
}

func TestCompute_GrossMarginClampsAtZero(t *testing.T) {
	month := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	in := Inputs{
		Transactions: []model.Transaction{
			txn(month, "Abo", "", 100),
			txn(month, "Wareneinsatz", "", -400),
		},
	}

	m := New(nil).Compute(in, Window{})
	if m.GrossMarginPct != 0 {
		t.Errorf("GrossMarginPct = %v, want clamped 0", m.GrossMarginPct)
	}
}

func TestCompute_CustomerCount(t *testing.T) {
	month := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	in := Inputs{
		Transactions: []model.Transaction{
			txn(month, "Acme GmbH", "", 100),
			txn(month, " acme gmbh ", "", 200),
			txn(month, "Beta AG", "", 300),
			txn(month, "Miete", "", -500),
		},
	}

	m := New(nil).Compute(in, Window{})
	if m.CustomerCount != 2 {
		t.Errorf("CustomerCount = %v, want 2 from revenue descriptions", m.CustomerCount)
	}

	// Deals take precedence over revenue descriptions when present.
	in.Deals = []model.Deal{
		{ClientName: "Gamma"},
		{ClientName: "gamma "},
		{ClientName: "Delta"},
		{ClientName: "Epsilon"},
	}
	m = New(nil).Compute(in, Window{})
	if m.CustomerCount != 3 {
		t.Errorf("CustomerCount = %v, want 3 distinct deal clients", m.CustomerCount)
	}
}

func TestCompute_PipelineValue(t *testing.T) {
	in := Inputs{
		Deals: []model.Deal{
			{ClientName: "A", Phase: "Closed Won", Amount: 10000},
			{ClientName: "B", Phase: "Verhandlung", Amount: 5000},
			{ClientName: "C", Phase: "Lead", Amount: 99999},
			{ClientName: "D", Phase: "Vertragsentwurf", Amount: 1500},
		},
	}

	m := New(nil).Compute(in, Window{})
	if m.PipelineValue != 16500 {
		t.Errorf("PipelineValue = %v, want 16500 (contracted phases only)", m.PipelineValue)
	}
}

func TestCompute_TopCategories(t *testing.T) {
	month := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	in := Inputs{
		Transactions: []model.Transaction{
			txn(month, "", "rent", -1200.4),
			txn(month, "", "salaries", -5000),
			txn(month, "", "marketing", -300),
			txn(month, "", "software", -99.6),
			txn(month, "", "travel", -80),
			txn(month, "", "insurance", -50),
		},
	}

	m := New(nil).Compute(in, Window{})

	if len(m.TopCategories) != 5 {
		t.Fatalf("TopCategories = %d entries, want 5", len(m.TopCategories))
	}
	if m.TopCategories[0].Category != "salaries" || m.TopCategories[0].Amount != 5000 {
		t.Errorf("top category = %+v, want salaries 5000", m.TopCategories[0])
	}
	if m.TopCategories[1].Amount != 1200 {
		t.Errorf("rent rollup = %v, want rounded 1200", m.TopCategories[1].Amount)
	}
	for _, cat := range m.TopCategories {
		if cat.Category == "insurance" {
			t.Error("sixth-ranked category included in top five")
		}
	}
}

func TestCompute_WindowFiltersMetricsButNotCash(t *testing.T) {
	in := Inputs{
		Transactions: []model.Transaction{
			txn(time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), "Altes Abo", "", 700),
			txn(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), "Abo", "", 1000),
		},
	}
	w := Window{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	m := New(nil).Compute(in, w)

	if m.Revenue != 1000 {
		t.Errorf("Revenue = %v, want 1000 (windowed)", m.Revenue)
	}
	if m.CashBalance != 1700 {
		t.Errorf("CashBalance = %v, want 1700 (all-time)", m.CashBalance)
	}
}

func TestRunway(t *testing.T) {
	tests := []struct {
		cash float64
		burn float64
		want int
	}{
		{10000, 2000, 5},
		{10000, 0, RunwayInfinite},
		{10000, -500, RunwayInfinite},
		{-2000, 1000, 0},
		{2500, 1000, 3}, // rounded, not truncated
	}
	for _, tt := range tests {
		if got := runway(tt.cash, tt.burn); got != tt.want {
			t.Errorf("runway(%v, %v) = %v, want %v", tt.cash, tt.burn, got, tt.want)
		}
	}
}

func TestCompute_IgnoresNonFiniteAmounts(t *testing.T) {
	month := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	in := Inputs{
		Transactions: []model.Transaction{
			txn(month, "Abo", "", 100),
			txn(month, "kaputt", "", math.NaN()),
			txn(month, "kaputt", "", math.Inf(1)),
		},
	}

	m := New(nil).Compute(in, Window{})
	if m.Revenue != 100 {
		t.Errorf("Revenue = %v, want 100 with non-finite amounts zeroed", m.Revenue)
	}
	if m.CashBalance != 100 {
		t.Errorf("CashBalance = %v, want 100", m.CashBalance)
	}
}
