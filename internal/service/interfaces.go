// Package service defines the interfaces between the pipeline and its collaborators.
package service

import (
	"context"
	"time"

	"github.com/finweave/finweave/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// Storage defines the contract for the persistence layer. All operations are
// scoped by workspace; the pipeline relies on nothing beyond "what I insert,
// I can later read back unmodified."
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, workspace string, transactions []model.Transaction) error
	GetTransactions(ctx context.Context, workspace string, filter TransactionFilter) ([]model.Transaction, error)
	DeleteTransactionsByReference(ctx context.Context, workspace, reference string) (int64, error)

	// Deal operations
	SaveDeals(ctx context.Context, workspace string, deals []model.Deal) error
	GetDeals(ctx context.Context, workspace string) ([]model.Deal, error)

	// Budget operations
	SaveBudgetRows(ctx context.Context, workspace string, rows []model.BudgetRow) error
	GetBudgetRows(ctx context.Context, workspace string) ([]model.BudgetRow, error)

	// Dataset metadata operations
	SaveDataset(ctx context.Context, workspace string, dataset *model.LinkedDataset) error
	GetDatasets(ctx context.Context, workspace string) ([]model.LinkedDataset, error)

	// Proposal blob operations
	SaveProposal(ctx context.Context, workspace string, proposal *model.Proposal) error
	GetProposal(ctx context.Context, workspace string) (*model.Proposal, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
