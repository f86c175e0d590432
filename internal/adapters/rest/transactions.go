package rest

import (
	"context"

	"github.com/cp25sy5-modjot/streamlinepay-forms/internal/domain"
	"github.com/cp25sy5-modjot/streamlinepay-forms/internal/ports"
)

const transactionsPath = "/api/transactions"

// TransactionsAPI implements ports.TransactionAPI over HTTP.
type TransactionsAPI struct {
	c *Client
}

var _ ports.TransactionAPI = (*TransactionsAPI)(nil)

func NewTransactionsAPI(c *Client) *TransactionsAPI { return &TransactionsAPI{c: c} }

func (a *TransactionsAPI) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	var out []domain.Transaction
	if err := a.c.getJSON(ctx, "fetching transactions", transactionsPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *TransactionsAPI) CreateTransaction(ctx context.Context, draft domain.TransactionDraft) error {
	return a.c.postJSON(ctx, "creating transaction", transactionsPath, draft)
}
