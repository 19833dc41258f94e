package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/finweave/finweave/internal/common"
)

func TestReadCSV(t *testing.T) {
	input := `Datum, Betrag,Beschreibung
2024-01-15,1500,Abonnement
2024-01-16,-50
2024-01-17,200,Workshop,extra-cell
`

	table, err := ReadCSV(strings.NewReader(input), "export.csv")
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	if table.FileName != "export.csv" {
		t.Errorf("FileName = %q, want export.csv", table.FileName)
	}

	wantHeaders := []string{"Datum", "Betrag", "Beschreibung"}
	if len(table.Headers) != len(wantHeaders) {
		t.Fatalf("headers = %v, want %v", table.Headers, wantHeaders)
	}
	for i, h := range wantHeaders {
		if table.Headers[i] != h {
			t.Errorf("header[%d] = %q, want %q", i, table.Headers[i], h)
		}
	}

	if len(table.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(table.Rows))
	}
	if table.Rows[0]["Beschreibung"] != "Abonnement" {
		t.Errorf("row 0 Beschreibung = %q, want Abonnement", table.Rows[0]["Beschreibung"])
	}

	// Short row: missing cells stay absent.
	if _, ok := table.Rows[1]["Beschreibung"]; ok {
		t.Error("short row grew a Beschreibung cell")
	}
	// Long row: the surplus cell is dropped.
	if len(table.Rows[2]) != 3 {
		t.Errorf("long row has %d cells, want 3", len(table.Rows[2]))
	}
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), "empty.csv")
	if !errors.Is(err, common.ErrEmptyInput) {
		t.Errorf("error = %v, want ErrEmptyInput", err)
	}
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("Date,Amount\n"), "headers.csv")
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(table.Rows) != 0 {
		t.Errorf("rows = %d, want 0", len(table.Rows))
	}
}

func TestPreprocessOFX(t *testing.T) {
	input := "  \n<OFX>\n<SEVERITY>info</SEVERITY>\n  <TRNAMT\n</OFX>"

	got := preprocessOFX(input)

	if strings.HasPrefix(got, " ") || strings.HasPrefix(got, "\n") {
		t.Error("leading whitespace not trimmed")
	}
	if !strings.Contains(got, "<SEVERITY>INFO</SEVERITY>") {
		t.Errorf("severity not upper-cased: %q", got)
	}
	if !strings.Contains(got, "<TRNAMT>") {
		t.Errorf("unclosed tag not repaired: %q", got)
	}
}
