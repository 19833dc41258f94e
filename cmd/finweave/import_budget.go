package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finweave/finweave/internal/cli"
	"github.com/finweave/finweave/internal/detect"
	"github.com/finweave/finweave/internal/model"
)

var budgetColumnKeywords = map[string][]string{
	"month":    {"month", "monat", "periode", "period"},
	"category": {"category", "kategorie", "position", "konto", "account"},
	"value":    {"planned", "plan", "budget", "value", "wert", "betrag", "amount"},
}

func importBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-budget <file>",
		Short: "Import a planning sheet of monthly budget values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := readTable(args[0], "")
			if err != nil {
				return err
			}

			budgets, err := parseBudgetRows(table)
			if err != nil {
				return err
			}

			if len(budgets) == 0 {
				fmt.Println(cli.FormatWarning("imported 0 budget rows: no parseable rows"))
				return nil
			}

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}
			if err := store.SaveBudgetRows(cmd.Context(), workspace(), budgets); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("imported %d budget rows", len(budgets))))
			return nil
		},
	}
}

// parseBudgetRows builds budget rows from a planning sheet. Rows missing a
// value, month, or category are skipped; an empty result is not an error.
func parseBudgetRows(table model.RawTable) ([]model.BudgetRow, error) {
	columns := mapColumns(table.Headers, budgetColumnKeywords)
	if columns["month"] == "" || columns["category"] == "" || columns["value"] == "" {
		return nil, fmt.Errorf("%s: could not locate month, category, and value columns", table.FileName)
	}

	var budgets []model.BudgetRow
	for _, row := range table.Rows {
		value, present := detect.ParseAmount(row[columns["value"]])
		if !present {
			continue
		}
		month := normalizeMonth(row[columns["month"]])
		category := strings.TrimSpace(row[columns["category"]])
		if month == "" || category == "" {
			continue
		}
		budgets = append(budgets, model.BudgetRow{
			Month:    month,
			Category: category,
			Value:    value,
		})
	}
	return budgets, nil
}

// normalizeMonth accepts "YYYY-MM", a full date, or "MM/YYYY" and returns the
// canonical "YYYY-MM" key the variance engine buckets by.
func normalizeMonth(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) == 7 && raw[4] == '-' {
		return raw
	}
	if t, ok := detect.ParseDate(raw, model.DateFormatUnknown); ok {
		return t.Format("2006-01")
	}
	if parts := strings.Split(raw, "/"); len(parts) == 2 && len(parts[1]) == 4 {
		if month, err := strconv.Atoi(parts[0]); err == nil && month >= 1 && month <= 12 {
			return fmt.Sprintf("%s-%02d", parts[1], month)
		}
	}
	return ""
}
