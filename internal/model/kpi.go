package model

// CategoryTotal is one entry of a category rollup.
type CategoryTotal struct {
	Category string
	Amount   float64
}

// KPIMetrics is the pure output of the aggregation engine. It is never
// persisted as source data and is always recomputable from the rows.
type KPIMetrics struct {
	Revenue        float64
	Expenses       float64
	MRR            float64
	ARR            float64
	BurnRate       float64 // Current month, clamped to >= 0 for display
	BurnRateLTM    float64 // Trailing-12-month average, clamped to >= 0
	BurnVsLTMPct   float64 // Computed from unclamped monthly nets
	CashBalance    float64 // All-time running sum, not windowed
	RunwayMonths   int     // 999 when burn rate <= 0
	GrossMarginPct float64 // Clamped to >= 0
	NetMarginPct   float64 // Not clamped; negative signals losses
	CustomerCount  int
	PipelineValue  float64
	TopCategories  []CategoryTotal
}

// BudgetVariance compares planned against actual for one budget category.
type BudgetVariance struct {
	Category    string
	Month       string
	Planned     float64
	Actual      float64
	Variance    float64
	VariancePct float64 // 0 when planned is 0, never a division error
}
