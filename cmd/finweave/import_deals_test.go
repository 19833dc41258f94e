package main

import (
	"testing"
	"time"

	"github.com/finweave/finweave/internal/model"
)

func TestParseDeals(t *testing.T) {
	table := model.RawTable{
		FileName: "pipeline.csv",
		Headers:  []string{"Kunde", "Status", "Volumen", "Abschlussdatum"},
		Rows: []map[string]string{
			{"Kunde": "Acme GmbH", "Status": "Verhandlung", "Volumen": "12.000,00", "Abschlussdatum": "2024-06-30"},
			{"Kunde": "Beta AG", "Status": "Lead", "Volumen": "", "Abschlussdatum": ""},
		},
	}

	deals, err := parseDeals(table)
	if err != nil {
		t.Fatalf("parseDeals: %v", err)
	}
	if len(deals) != 1 {
		t.Fatalf("deals = %d, want 1 (row without amount skipped)", len(deals))
	}

	deal := deals[0]
	if deal.ClientName != "Acme GmbH" || deal.Phase != "Verhandlung" || deal.Amount != 12000 {
		t.Errorf("deal = %+v, want Acme GmbH/Verhandlung/12000", deal)
	}
	if !deal.ClosingDate.Equal(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("closing date = %v, want 2024-06-30", deal.ClosingDate)
	}
	if deal.ID == "" {
		t.Error("deal ID not assigned")
	}
}

func TestParseDeals_NoUsableRows(t *testing.T) {
	table := model.RawTable{
		FileName: "pipeline.csv",
		Headers:  []string{"Kunde", "Volumen"},
		Rows: []map[string]string{
			{"Kunde": "Acme GmbH", "Volumen": ""},
		},
	}

	deals, err := parseDeals(table)
	if err != nil {
		t.Fatalf("parseDeals: %v", err)
	}
	// No usable rows is an empty result, not an error.
	if len(deals) != 0 {
		t.Errorf("deals = %d, want 0", len(deals))
	}
}

func TestParseDeals_MissingColumns(t *testing.T) {
	table := model.RawTable{
		FileName: "notes.csv",
		Headers:  []string{"Titel", "Text"},
	}

	if _, err := parseDeals(table); err == nil {
		t.Error("expected error for missing client/amount columns")
	}
}
