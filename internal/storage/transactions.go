package storage

import (
	"context"
	"fmt"

	"github.com/finweave/finweave/internal/model"
	"github.com/finweave/finweave/internal/service"
)

// SaveTransactions saves transactions for a workspace. Rows whose hash is
// already present in the workspace are ignored, which makes re-uploads of the
// same file idempotent.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, workspace string, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(workspace, "workspace"); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			id, workspace, hash, date, description, category, reference, amount
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range transactions {
		hash := txn.GenerateHash()
		if _, err := stmt.ExecContext(ctx,
			txn.ID,
			workspace,
			hash,
			txn.Date,
			txn.Description,
			txn.Category,
			txn.Reference,
			txn.Amount,
		); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}

	return tx.Commit()
}

// GetTransactions retrieves workspace transactions matching the filter,
// ordered by date ascending.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, workspace string, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(workspace, "workspace"); err != nil {
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: %v before %v", ErrInvalidDateRange, filter.EndDate, filter.StartDate)
	}

	query := `
		SELECT id, date, description, category, reference, amount
		FROM transactions
		WHERE workspace = ?
	`
	args := []any{workspace}

	if filter.StartDate != nil {
		query += " AND date >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += " AND date <= ?"
		args = append(args, *filter.EndDate)
	}
	query += " ORDER BY date ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		if err := rows.Scan(&txn.ID, &txn.Date, &txn.Description, &txn.Category, &txn.Reference, &txn.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, txn)
	}
	return transactions, rows.Err()
}

// DeleteTransactionsByReference removes the rows imported from one source
// file, the correction path for a bad upload.
func (s *SQLiteStorage) DeleteTransactionsByReference(ctx context.Context, workspace, reference string) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(workspace, "workspace"); err != nil {
		return 0, err
	}
	if err := validateString(reference, "reference"); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE workspace = ? AND reference LIKE ?`,
		workspace, reference+"%")
	if err != nil {
		return 0, fmt.Errorf("failed to delete transactions: %w", err)
	}
	return result.RowsAffected()
}
