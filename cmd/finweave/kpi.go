package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/finweave/finweave/internal/cli"
	"github.com/finweave/finweave/internal/kpi"
	"github.com/finweave/finweave/internal/model"
	"github.com/finweave/finweave/internal/service"
)

func kpiCmd() *cobra.Command {
	var fromStr, toStr string
	var asJSON bool
	var showVariance bool

	cmd := &cobra.Command{
		Use:   "kpi",
		Short: "Compute financial KPIs for the workspace",
		Long: `Aggregates all stored transactions, deals, and budget rows into the KPI set:
revenue, MRR/ARR, burn rate and runway, margins, customer count, pipeline
value, and top expense categories. --from/--to bound the reporting window;
cash balance is always all-time.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			window, err := parseWindow(fromStr, toStr)
			if err != nil {
				return err
			}

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}

			transactions, err := store.GetTransactions(cmd.Context(), workspace(), service.TransactionFilter{})
			if err != nil {
				return err
			}
			deals, err := store.GetDeals(cmd.Context(), workspace())
			if err != nil {
				return err
			}
			budgets, err := store.GetBudgetRows(cmd.Context(), workspace())
			if err != nil {
				return err
			}

			aggregator := kpi.New(nil)
			inputs := kpi.Inputs{
				Transactions: transactions,
				Deals:        deals,
				Budgets:      budgets,
			}
			metrics := aggregator.Compute(inputs, window)

			var variances []model.BudgetVariance
			if showVariance {
				variances = aggregator.BudgetVariances(inputs, window)
			}

			if asJSON {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(struct {
					Metrics   model.KPIMetrics       `json:"metrics"`
					Variances []model.BudgetVariance `json:"variances,omitempty"`
				}{metrics, variances})
			}

			printMetrics(metrics)
			if showVariance {
				printVariances(variances)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "window start (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&toStr, "to", "", "window end (YYYY-MM-DD, inclusive)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of a report")
	cmd.Flags().BoolVar(&showVariance, "variance", false, "include budget-vs-actual variances")
	return cmd
}

func parseWindow(fromStr, toStr string) (kpi.Window, error) {
	var w kpi.Window
	if fromStr != "" {
		t, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return w, fmt.Errorf("invalid --from date %q: %w", fromStr, err)
		}
		w.Start = t
	}
	if toStr != "" {
		t, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return w, fmt.Errorf("invalid --to date %q: %w", toStr, err)
		}
		// Inclusive end of day.
		w.End = t.Add(24*time.Hour - time.Nanosecond)
	}
	return w, nil
}

func printMetrics(m model.KPIMetrics) {
	fmt.Println(cli.FormatTitle("Financial KPIs"))
	fmt.Printf("  Revenue          %12.2f\n", m.Revenue)
	fmt.Printf("  Expenses         %12.2f\n", m.Expenses)
	fmt.Printf("  MRR              %12.2f\n", m.MRR)
	fmt.Printf("  ARR              %12.2f\n", m.ARR)
	fmt.Printf("  Burn rate        %12.2f\n", m.BurnRate)
	fmt.Printf("  Burn rate (LTM)  %12.2f\n", m.BurnRateLTM)
	fmt.Printf("  Burn vs LTM      %11.1f%%\n", m.BurnVsLTMPct)
	fmt.Printf("  Cash balance     %12.2f\n", m.CashBalance)
	if m.RunwayMonths >= kpi.RunwayInfinite {
		fmt.Printf("  Runway           %12s\n", "∞")
	} else {
		fmt.Printf("  Runway           %9d mo\n", m.RunwayMonths)
	}
	fmt.Printf("  Gross margin     %11.1f%%\n", m.GrossMarginPct)
	fmt.Printf("  Net margin       %11.1f%%\n", m.NetMarginPct)
	fmt.Printf("  Customers        %12d\n", m.CustomerCount)
	fmt.Printf("  Pipeline value   %12.2f\n", m.PipelineValue)

	if len(m.TopCategories) > 0 {
		fmt.Println(cli.FormatTitle("Top expense categories"))
		for _, cat := range m.TopCategories {
			fmt.Printf("  %-24s %12.2f\n", cat.Category, cat.Amount)
		}
	}
}

func printVariances(variances []model.BudgetVariance) {
	if len(variances) == 0 {
		fmt.Println(cli.FormatWarning("no budget rows to compare"))
		return
	}
	fmt.Println(cli.FormatTitle("Budget vs actual"))
	for _, v := range variances {
		fmt.Printf("  %s  %-20s planned %10.2f  actual %10.2f  %+8.1f%%\n",
			v.Month, v.Category, v.Planned, v.Actual, v.VariancePct)
	}
}
