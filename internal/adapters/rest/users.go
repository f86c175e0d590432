package rest

import (
	"context"

	"github.com/cp25sy5-modjot/streamlinepay-forms/internal/domain"
	"github.com/cp25sy5-modjot/streamlinepay-forms/internal/ports"
)

const usersPath = "/api/users"

// UsersAPI implements ports.UserAPI over HTTP.
type UsersAPI struct {
	c *Client
}

var _ ports.UserAPI = (*UsersAPI)(nil)

func NewUsersAPI(c *Client) *UsersAPI { return &UsersAPI{c: c} }

func (a *UsersAPI) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := a.c.getJSON(ctx, "fetching users", usersPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *UsersAPI) CreateUser(ctx context.Context, draft domain.UserDraft) error {
	return a.c.postJSON(ctx, "creating user", usersPath, draft)
}
