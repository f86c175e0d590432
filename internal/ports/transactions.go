package ports

import (
	"context"

	"github.com/cp25sy5-modjot/streamlinepay-forms/internal/domain"
)

// TransactionAPI is the remote transaction service.
type TransactionAPI interface {
	// Returns every transaction in the order the service lists them.
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	// Non-2xx answers and transport failures come back as *domain.RequestError.
	CreateTransaction(ctx context.Context, draft domain.TransactionDraft) error
}
