package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/finweave/finweave/internal/model"
)

// SaveDataset records an uploaded dataset's identity for later auto-linking.
func (s *SQLiteStorage) SaveDataset(ctx context.Context, workspace string, dataset *model.LinkedDataset) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(workspace, "workspace"); err != nil {
		return err
	}
	if err := validateDataset(dataset); err != nil {
		return err
	}

	columns, err := json.Marshal(dataset.Columns)
	if err != nil {
		return fmt.Errorf("failed to encode dataset columns: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO datasets (id, workspace, name, sheet_name, detected_table, confidence, columns)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			sheet_name = excluded.sheet_name,
			detected_table = excluded.detected_table,
			confidence = excluded.confidence,
			columns = excluded.columns
	`, dataset.ID, workspace, dataset.Name, dataset.SheetName, dataset.DetectedTable, dataset.Confidence, string(columns))
	if err != nil {
		return fmt.Errorf("failed to save dataset %s: %w", dataset.ID, err)
	}
	return nil
}

// GetDatasets retrieves all dataset records for a workspace in insertion
// order, which keeps auto-link's first-match deterministic.
func (s *SQLiteStorage) GetDatasets(ctx context.Context, workspace string) ([]model.LinkedDataset, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(workspace, "workspace"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, sheet_name, detected_table, confidence, COALESCE(columns, '[]')
		FROM datasets WHERE workspace = ? ORDER BY created_at ASC, id ASC
	`, workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var datasets []model.LinkedDataset
	for rows.Next() {
		var ds model.LinkedDataset
		var columns string
		if err := rows.Scan(&ds.ID, &ds.Name, &ds.SheetName, &ds.DetectedTable, &ds.Confidence, &columns); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		if err := json.Unmarshal([]byte(columns), &ds.Columns); err != nil {
			return nil, fmt.Errorf("failed to decode dataset columns: %w", err)
		}
		datasets = append(datasets, ds)
	}
	return datasets, rows.Err()
}
