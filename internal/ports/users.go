package ports

import (
	"context"

	"github.com/cp25sy5-modjot/streamlinepay-forms/internal/domain"
)

// UserAPI is the remote user service.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, draft domain.UserDraft) error
}
