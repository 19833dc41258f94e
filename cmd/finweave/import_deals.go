package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/finweave/finweave/internal/cli"
	"github.com/finweave/finweave/internal/detect"
	"github.com/finweave/finweave/internal/model"
)

// Deal sheets come from CRM exports with their own header vocabulary, so
// they get a dedicated bilingual column map instead of the transaction
// detector.
var dealColumnKeywords = map[string][]string{
	"client":  {"client", "kunde", "customer", "firma", "company", "name"},
	"phase":   {"phase", "stufe", "stage", "status"},
	"amount":  {"amount", "betrag", "value", "wert", "volumen", "summe"},
	"closing": {"closing", "abschluss", "close", "datum", "date"},
}

func importDealsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-deals <file>",
		Short: "Import a CRM pipeline export (CSV or XLSX)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := readTable(args[0], "")
			if err != nil {
				return err
			}

			deals, err := parseDeals(table)
			if err != nil {
				return err
			}

			if len(deals) == 0 {
				fmt.Println(cli.FormatWarning("imported 0 deals: no parseable rows"))
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
			if err := store.SaveDeals(cmd.Context(), workspace(), deals); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("imported %d deals", len(deals))))
			return nil
		},
	}
}

// parseDeals builds deals from a CRM export table. Rows without a parseable
// amount are skipped; an empty result is not an error.
func parseDeals(table model.RawTable) ([]model.Deal, error) {
	columns := mapColumns(table.Headers, dealColumnKeywords)
	if columns["client"] == "" || columns["amount"] == "" {
		return nil, fmt.Errorf("%s: could not locate client and amount columns", table.FileName)
	}

	var deals []model.Deal
	for _, row := range table.Rows {
		amount, present := detect.ParseAmount(row[columns["amount"]])
		if !present {
			continue
		}
		deal := model.Deal{
			ID:         uuid.NewString(),
			ClientName: strings.TrimSpace(row[columns["client"]]),
			Phase:      strings.TrimSpace(row[columns["phase"]]),
			Amount:     amount,
		}
		if col := columns["closing"]; col != "" {
			if t, ok := detect.ParseDate(row[col], model.DateFormatUnknown); ok {
				deal.ClosingDate = t
			}
		}
		deals = append(deals, deal)
	}
	return deals, nil
}

// mapColumns resolves each logical column to the first header containing one
// of its keywords, in header order. Each header is claimed at most once.
func mapColumns(headers []string, keywords map[string][]string) map[string]string {
	columns := make(map[string]string, len(keywords))
	claimed := make(map[string]bool, len(headers))
	for _, logical := range []string{"client", "phase", "amount", "closing", "month", "category", "value"} {
		kws, ok := keywords[logical]
		if !ok {
			continue
		}
		for _, header := range headers {
			if claimed[header] {
				continue
			}
			lower := strings.ToLower(header)
			for _, kw := range kws {
				if strings.Contains(lower, kw) {
					columns[logical] = header
					claimed[header] = true
					break
				}
			}
			if columns[logical] != "" {
				break
			}
		}
	}
	return columns
}
