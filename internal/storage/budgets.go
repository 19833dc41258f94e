package storage

import (
	"context"
	"fmt"

	"github.com/finweave/finweave/internal/model"
)

// SaveBudgetRows upserts planned values; a re-upload of a month/category pair
// replaces the previous plan.
func (s *SQLiteStorage) SaveBudgetRows(ctx context.Context, workspace string, budgetRows []model.BudgetRow) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(workspace, "workspace"); err != nil {
		return err
	}
	if err := validateBudgetRows(budgetRows); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO budgets (workspace, month, category, value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(workspace, month, category) DO UPDATE SET value = excluded.value
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range budgetRows {
		if _, err := stmt.ExecContext(ctx, workspace, row.Month, row.Category, row.Value); err != nil {
			return fmt.Errorf("failed to insert budget row %s/%s: %w", row.Month, row.Category, err)
		}
	}

	return tx.Commit()
}

// GetBudgetRows retrieves all budget rows for a workspace.
func (s *SQLiteStorage) GetBudgetRows(ctx context.Context, workspace string) ([]model.BudgetRow, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(workspace, "workspace"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT month, category, value
		FROM budgets WHERE workspace = ? ORDER BY month ASC, category ASC
	`, workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to query budget rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgetRows []model.BudgetRow
	for rows.Next() {
		var row model.BudgetRow
		if err := rows.Scan(&row.Month, &row.Category, &row.Value); err != nil {
			return nil, fmt.Errorf("failed to scan budget row: %w", err)
		}
		budgetRows = append(budgetRows, row)
	}
	return budgetRows, rows.Err()
}
