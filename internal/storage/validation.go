package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/finweave/finweave/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidDeal        = errors.New("invalid deal")
	ErrInvalidBudgetRow   = errors.New("invalid budget row")
	ErrInvalidDataset     = errors.New("invalid dataset")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i, txn := range transactions {
		if txn.ID == "" {
			return fmt.Errorf("transaction at index %d: %w: missing ID", i, ErrInvalidTransaction)
		}
		if txn.Date.IsZero() {
			return fmt.Errorf("transaction at index %d: %w: missing date", i, ErrInvalidTransaction)
		}
	}
	return nil
}

func validateDeals(deals []model.Deal) error {
	if deals == nil {
		return fmt.Errorf("%w: deals", ErrNilParameter)
	}
	if len(deals) == 0 {
		return fmt.Errorf("%w: deals", ErrEmptySlice)
	}
	for i, deal := range deals {
		if deal.ID == "" {
			return fmt.Errorf("deal at index %d: %w: missing ID", i, ErrInvalidDeal)
		}
		if strings.TrimSpace(deal.ClientName) == "" {
			return fmt.Errorf("deal at index %d: %w: missing client name", i, ErrInvalidDeal)
		}
	}
	return nil
}

func validateBudgetRows(rows []model.BudgetRow) error {
	if rows == nil {
		return fmt.Errorf("%w: budget rows", ErrNilParameter)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: budget rows", ErrEmptySlice)
	}
	for i, row := range rows {
		if strings.TrimSpace(row.Month) == "" {
			return fmt.Errorf("budget row at index %d: %w: missing month", i, ErrInvalidBudgetRow)
		}
		if strings.TrimSpace(row.Category) == "" {
			return fmt.Errorf("budget row at index %d: %w: missing category", i, ErrInvalidBudgetRow)
		}
	}
	return nil
}

func validateDataset(dataset *model.LinkedDataset) error {
	if dataset == nil {
		return fmt.Errorf("%w: dataset", ErrNilParameter)
	}
	if dataset.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidDataset)
	}
	if strings.TrimSpace(dataset.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidDataset)
	}
	return nil
}
