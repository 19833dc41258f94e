package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/finweave/finweave/internal/common"
	"github.com/finweave/finweave/internal/model"
	"github.com/finweave/finweave/internal/service"
)

func serviceFilter(start, end *time.Time) service.TransactionFilter {
	return service.TransactionFilter{StartDate: start, EndDate: end}
}

func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return store
}

func createTestTransactions(count int) []model.Transaction {
	txns := make([]model.Transaction, count)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < count; i++ {
		txns[i] = model.Transaction{
			ID:          fmt.Sprintf("txn-%03d", i+1),
			Date:        base.AddDate(0, 0, i),
			Description: fmt.Sprintf("Abonnement Kunde %d", i+1),
			Category:    "subscription",
			Reference:   "export.csv#" + fmt.Sprint(i+1),
			Amount:      float64(i+1) * 10,
		}
	}
	return txns
}

func TestSQLiteStorage_TransactionRoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	saved := createTestTransactions(3)
	if err := store.SaveTransactions(ctx, "ws1", saved); err != nil {
		t.Fatalf("SaveTransactions() error = %v", err)
	}

	loaded, err := store.GetTransactions(ctx, "ws1", serviceFilter(nil, nil))
	if err != nil {
		t.Fatalf("GetTransactions() error = %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("loaded = %d transactions, want 3", len(loaded))
	}

	first := loaded[0]
	if first.ID != "txn-001" || first.Amount != 10 || first.Category != "subscription" {
		t.Errorf("first transaction = %+v, want unmodified txn-001", first)
	}
	if !first.Date.Equal(saved[0].Date) {
		t.Errorf("date = %v, want %v", first.Date, saved[0].Date)
	}

	// Workspace scoping: other workspaces see nothing.
	other, err := store.GetTransactions(ctx, "ws2", serviceFilter(nil, nil))
	if err != nil {
		t.Fatalf("GetTransactions(ws2) error = %v", err)
	}
	if len(other) != 0 {
		t.Errorf("ws2 sees %d transactions, want 0", len(other))
	}
}

func TestSQLiteStorage_ReuploadIsIdempotent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txns := createTestTransactions(2)
	if err := store.SaveTransactions(ctx, "ws1", txns); err != nil {
		t.Fatalf("first save error = %v", err)
	}

	// Same content under fresh IDs still collides on the hash.
	reupload := createTestTransactions(2)
	reupload[0].ID = "txn-901"
	reupload[1].ID = "txn-902"
	if err := store.SaveTransactions(ctx, "ws1", reupload); err != nil {
		t.Fatalf("second save error = %v", err)
	}

	loaded, err := store.GetTransactions(ctx, "ws1", serviceFilter(nil, nil))
	if err != nil {
		t.Fatalf("GetTransactions() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Errorf("loaded = %d transactions, want 2 after duplicate upload", len(loaded))
	}
}

func TestSQLiteStorage_GetTransactionsDateFilter(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if err := store.SaveTransactions(ctx, "ws1", createTestTransactions(10)); err != nil {
		t.Fatalf("SaveTransactions() error = %v", err)
	}

	start := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	loaded, err := store.GetTransactions(ctx, "ws1", serviceFilter(&start, &end))
	if err != nil {
		t.Fatalf("GetTransactions() error = %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("loaded = %d transactions, want 3 in range", len(loaded))
	}
	for i := 1; i < len(loaded); i++ {
		if loaded[i].Date.Before(loaded[i-1].Date) {
			t.Error("transactions not ordered by date ascending")
		}
	}

	// An inverted range is a caller bug, not an empty result.
	if _, err := store.GetTransactions(ctx, "ws1", serviceFilter(&end, &start)); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("inverted range error = %v, want ErrInvalidDateRange", err)
	}
}

func TestSQLiteStorage_DeleteTransactionsByReference(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txns := createTestTransactions(3)
	txns[2].Reference = "other.csv#1"
	if err := store.SaveTransactions(ctx, "ws1", txns); err != nil {
		t.Fatalf("SaveTransactions() error = %v", err)
	}

	deleted, err := store.DeleteTransactionsByReference(ctx, "ws1", "export.csv")
	if err != nil {
		t.Fatalf("DeleteTransactionsByReference() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	remaining, err := store.GetTransactions(ctx, "ws1", serviceFilter(nil, nil))
	if err != nil {
		t.Fatalf("GetTransactions() error = %v", err)
	}
	if len(remaining) != 1 || remaining[0].Reference != "other.csv#1" {
		t.Errorf("remaining = %+v, want only the other.csv row", remaining)
	}
}

func TestSQLiteStorage_DealsRoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	deals := []model.Deal{
		{ID: "deal-1", ClientName: "Acme", Phase: "Verhandlung", Amount: 5000,
			ClosingDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "deal-2", ClientName: "Beta", Phase: "Lead", Amount: 1200,
			ClosingDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	if err := store.SaveDeals(ctx, "ws1", deals); err != nil {
		t.Fatalf("SaveDeals() error = %v", err)
	}

	// Upsert replaces by ID.
	deals[0].Phase = "Closed Won"
	if err := store.SaveDeals(ctx, "ws1", deals[:1]); err != nil {
		t.Fatalf("SaveDeals() upsert error = %v", err)
	}

	loaded, err := store.GetDeals(ctx, "ws1")
	if err != nil {
		t.Fatalf("GetDeals() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded = %d deals, want 2", len(loaded))
	}
	// Ordered by closing date ascending.
	if loaded[0].ID != "deal-2" {
		t.Errorf("first deal = %s, want deal-2", loaded[0].ID)
	}
	if loaded[1].Phase != "Closed Won" {
		t.Errorf("phase = %q, want upserted Closed Won", loaded[1].Phase)
	}
}

func TestSQLiteStorage_BudgetRowsUpsert(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	rows := []model.BudgetRow{
		{Month: "2024-01", Category: "Miete", Value: 1000},
		{Month: "2024-01", Category: "Marketing", Value: 500},
	}
	if err := store.SaveBudgetRows(ctx, "ws1", rows); err != nil {
		t.Fatalf("SaveBudgetRows() error = %v", err)
	}

	if err := store.SaveBudgetRows(ctx, "ws1", []model.BudgetRow{
		{Month: "2024-01", Category: "Miete", Value: 1200},
	}); err != nil {
		t.Fatalf("SaveBudgetRows() upsert error = %v", err)
	}

	loaded, err := store.GetBudgetRows(ctx, "ws1")
	if err != nil {
		t.Fatalf("GetBudgetRows() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded = %d rows, want 2", len(loaded))
	}
	// Ordered month, then category: Marketing before Miete.
	if loaded[0].Category != "Marketing" || loaded[1].Value != 1200 {
		t.Errorf("loaded = %+v, want Marketing 500 then Miete 1200", loaded)
	}
}

func TestSQLiteStorage_DatasetRoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	ds := &model.LinkedDataset{
		ID:            "ds-1",
		Name:          "stripe_jan",
		SheetName:     "Payments",
		DetectedTable: "payments",
		Confidence:    0.85,
		Columns:       []string{"Zahlung", "Betrag"},
	}
	if err := store.SaveDataset(ctx, "ws1", ds); err != nil {
		t.Fatalf("SaveDataset() error = %v", err)
	}

	loaded, err := store.GetDatasets(ctx, "ws1")
	if err != nil {
		t.Fatalf("GetDatasets() error = %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("loaded = %d datasets, want 1", len(loaded))
	}
	got := loaded[0]
	if got.DetectedTable != "payments" || got.Confidence != 0.85 {
		t.Errorf("dataset = %+v, want unmodified round-trip", got)
	}
	if len(got.Columns) != 2 || got.Columns[0] != "Zahlung" {
		t.Errorf("columns = %v, want [Zahlung Betrag]", got.Columns)
	}
}

func TestSQLiteStorage_ProposalRoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if _, err := store.GetProposal(ctx, "ws1"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("GetProposal() on empty workspace = %v, want ErrNotFound", err)
	}

	proposal := &model.Proposal{
		BusinessType: "coaching",
		RecommendedTables: []model.TableDef{
			{Name: "payments", Fields: []model.FieldDef{{Name: "payment_id", Type: "string"}}},
		},
		Relationships: []model.RelationshipDef{
			{From: "payments.booking_id", To: "bookings.booking_id"},
		},
	}
	if err := store.SaveProposal(ctx, "ws1", proposal); err != nil {
		t.Fatalf("SaveProposal() error = %v", err)
	}

	loaded, err := store.GetProposal(ctx, "ws1")
	if err != nil {
		t.Fatalf("GetProposal() error = %v", err)
	}
	if loaded.BusinessType != "coaching" || len(loaded.RecommendedTables) != 1 || len(loaded.Relationships) != 1 {
		t.Errorf("loaded = %+v, want saved proposal back unmodified", loaded)
	}

	// Whole-object replace.
	proposal.BusinessType = "gym"
	if err := store.SaveProposal(ctx, "ws1", proposal); err != nil {
		t.Fatalf("SaveProposal() replace error = %v", err)
	}
	loaded, err = store.GetProposal(ctx, "ws1")
	if err != nil {
		t.Fatalf("GetProposal() error = %v", err)
	}
	if loaded.BusinessType != "gym" {
		t.Errorf("BusinessType = %q, want replaced gym", loaded.BusinessType)
	}
}

func TestSQLiteStorage_Validation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if err := store.SaveTransactions(ctx, "", createTestTransactions(1)); !errors.Is(err, ErrEmptyString) {
		t.Errorf("empty workspace error = %v, want ErrEmptyString", err)
	}

	txns := createTestTransactions(1)
	txns[0].ID = ""
	if err := store.SaveTransactions(ctx, "ws1", txns); !errors.Is(err, ErrInvalidTransaction) {
		t.Errorf("missing ID error = %v, want ErrInvalidTransaction", err)
	}

	if err := store.SaveDataset(ctx, "ws1", nil); !errors.Is(err, ErrNilParameter) {
		t.Errorf("nil dataset error = %v, want ErrNilParameter", err)
	}
}
