package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/raffle-cli/internal/domain/models"
)

// ListTransactions lists the most recent journal entries
type ListTransactions struct {
	journal TransactionJournal
}

// NewListTransactions creates a new ListTransactions use case
func NewListTransactions(journal TransactionJournal) *ListTransactions {
	return &ListTransactions{journal: journal}
}

// Run returns up to limit transactions, newest first. limit <= 0 means all.
func (uc *ListTransactions) Run(ctx context.Context, limit int) ([]*models.Transaction, error) {
	txs, err := uc.journal.ListTransactions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}
