package main

import (
	"testing"

	"github.com/finweave/finweave/internal/model"
)

func TestNormalizeMonth(t *testing.T) {
	tests := []struct{ in, want string }{
		{"2024-01", "2024-01"},
		{" 2024-03 ", "2024-03"},
		{"2024-01-15", "2024-01"},
		{"15.01.2024", ""}, // ambiguous without a format hint
		{"1/2024", "2024-01"},
		{"11/2024", "2024-11"},
		{"13/2024", ""},
		{"Januar", ""},
	}
	for _, tt := range tests {
		if got := normalizeMonth(tt.in); got != tt.want {
			t.Errorf("normalizeMonth(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseBudgetRows(t *testing.T) {
	table := model.RawTable{
		FileName: "plan.csv",
		Headers:  []string{"Monat", "Kategorie", "Betrag"},
		Rows: []map[string]string{
			{"Monat": "2024-01", "Kategorie": "Miete", "Betrag": "1.200,00"},
			{"Monat": "Januar", "Kategorie": "Miete", "Betrag": "100"},
			{"Monat": "2024-02", "Kategorie": "", "Betrag": "100"},
		},
	}

	budgets, err := parseBudgetRows(table)
	if err != nil {
		t.Fatalf("parseBudgetRows: %v", err)
	}
	if len(budgets) != 1 {
		t.Fatalf("budgets = %d, want 1 (bad month and blank category skipped)", len(budgets))
	}
	if budgets[0].Month != "2024-01" || budgets[0].Category != "Miete" || budgets[0].Value != 1200 {
		t.Errorf("row = %+v, want 2024-01/Miete/1200", budgets[0])
	}
}

func TestParseBudgetRows_NoUsableRows(t *testing.T) {
	table := model.RawTable{
		FileName: "plan.csv",
		Headers:  []string{"Monat", "Kategorie", "Betrag"},
		Rows: []map[string]string{
			{"Monat": "irgendwann", "Kategorie": "Miete", "Betrag": ""},
		},
	}

	budgets, err := parseBudgetRows(table)
	if err != nil {
		t.Fatalf("parseBudgetRows: %v", err)
	}
	// No usable rows is an empty result, not an error.
	if len(budgets) != 0 {
		t.Errorf("budgets = %d, want 0", len(budgets))
	}
}

func TestParseBudgetRows_MissingColumns(t *testing.T) {
	table := model.RawTable{
		FileName: "notes.csv",
		Headers:  []string{"Titel", "Text"},
	}

	if _, err := parseBudgetRows(table); err == nil {
		t.Error("expected error for missing month/category/value columns")
	}
}

func TestMapColumns(t *testing.T) {
	headers := []string{"Kunde", "Status", "Volumen", "Abschlussdatum"}

	columns := mapColumns(headers, dealColumnKeywords)

	if columns["client"] != "Kunde" {
		t.Errorf("client = %q, want Kunde", columns["client"])
	}
	if columns["phase"] != "Status" {
		t.Errorf("phase = %q, want Status", columns["phase"])
	}
	if columns["amount"] != "Volumen" {
		t.Errorf("amount = %q, want Volumen", columns["amount"])
	}
	if columns["closing"] != "Abschlussdatum" {
		t.Errorf("closing = %q, want Abschlussdatum", columns["closing"])
	}
}

func TestMapColumns_ClaimsEachHeaderOnce(t *testing.T) {
	// "Betrag" satisfies both budget value and deal amount vocabularies;
	// once claimed for value it must not be reused.
	headers := []string{"Monat", "Kategorie", "Betrag"}

	columns := mapColumns(headers, budgetColumnKeywords)

	if columns["month"] != "Monat" || columns["category"] != "Kategorie" || columns["value"] != "Betrag" {
		t.Errorf("columns = %v, want Monat/Kategorie/Betrag", columns)
	}
}
