package repositories

import (
	"context"

	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
)

// UserRepositoryFacade persists application users. CreateUser writes the
// user row and its role assignment together; a failed role write rolls the
// whole creation back.
type UserRepositoryFacade interface {
	CreateUser(ctx context.Context, user domain.User, passwordHash string) error
	UpdateUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	// FindUserByEmail also returns the stored password hash for credential checks.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, string, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}
