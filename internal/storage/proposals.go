package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/finweave/finweave/internal/common"
	"github.com/finweave/finweave/internal/model"
)

// SaveProposal stores the workspace's business-model proposal as a blob.
// Edits are whole-object replace; concurrent editors get last-write-wins
// unless the caller layers optimistic versioning on top.
func (s *SQLiteStorage) SaveProposal(ctx context.Context, workspace string, proposal *model.Proposal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(workspace, "workspace"); err != nil {
		return err
	}
	if proposal == nil {
		return fmt.Errorf("%w: proposal", ErrNilParameter)
	}

	payload, err := json.Marshal(proposal)
	if err != nil {
		return fmt.Errorf("failed to marshal proposal: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO proposals (workspace, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(workspace) DO UPDATE SET
			payload = excluded.payload,
			updated_at = CURRENT_TIMESTAMP
	`, workspace, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save proposal: %w", err)
	}
	return nil
}

// GetProposal loads the workspace's proposal. Returns common.ErrNotFound
// when no proposal has been saved yet.
func (s *SQLiteStorage) GetProposal(ctx context.Context, workspace string) (*model.Proposal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(workspace, "workspace"); err != nil {
		return nil, err
	}

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM proposals WHERE workspace = ?`, workspace).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: proposal for workspace %s", common.ErrNotFound, workspace)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query proposal: %w", err)
	}

	var proposal model.Proposal
	if err := json.Unmarshal([]byte(payload), &proposal); err != nil {
		return nil, fmt.Errorf("failed to unmarshal proposal: %w", err)
	}
	return &proposal, nil
}
