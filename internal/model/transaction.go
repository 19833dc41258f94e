// Package model defines the core domain records used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction is a normalized financial transaction produced from an upload.
// It is never mutated after insert; corrections happen via re-upload and delete.
type Transaction struct {
	Date        time.Time
	ID          string
	Description string
	Category    string // Raw category text from the source sheet, if any
	Reference   string // Source file and row, for traceability
	Amount      float64
}

// GenerateHash creates a stable hash for duplicate detection across re-uploads.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Description,
		t.Category)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Deal is a pipeline entry from a CRM export.
type Deal struct {
	ClosingDate time.Time
	ID          string
	ClientName  string
	Phase       string
	Amount      float64
}

// BudgetRow is one planned value for a category in a month.
type BudgetRow struct {
	Month    string // YYYY-MM
	Category string
	Value    float64
}
