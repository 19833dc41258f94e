package storage

import (
	"context"
	"fmt"

	"github.com/finweave/finweave/internal/model"
)

// SaveDeals upserts pipeline deals for a workspace.
func (s *SQLiteStorage) SaveDeals(ctx context.Context, workspace string, deals []model.Deal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(workspace, "workspace"); err != nil {
		return err
	}
	if err := validateDeals(deals); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO deals (id, workspace, client_name, phase, amount, closing_date)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			client_name = excluded.client_name,
			phase = excluded.phase,
			amount = excluded.amount,
			closing_date = excluded.closing_date
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, deal := range deals {
		if _, err := stmt.ExecContext(ctx,
			deal.ID, workspace, deal.ClientName, deal.Phase, deal.Amount, deal.ClosingDate,
		); err != nil {
			return fmt.Errorf("failed to insert deal %s: %w", deal.ID, err)
		}
	}

	return tx.Commit()
}

// GetDeals retrieves all deals for a workspace.
func (s *SQLiteStorage) GetDeals(ctx context.Context, workspace string) ([]model.Deal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(workspace, "workspace"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client_name, phase, amount, closing_date
		FROM deals WHERE workspace = ? ORDER BY closing_date ASC
	`, workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to query deals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var deals []model.Deal
	for rows.Next() {
		var deal model.Deal
		if err := rows.Scan(&deal.ID, &deal.ClientName, &deal.Phase, &deal.Amount, &deal.ClosingDate); err != nil {
			return nil, fmt.Errorf("failed to scan deal: %w", err)
		}
		deals = append(deals, deal)
	}
	return deals, rows.Err()
}
