package services

import (
	"context"

	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	"github.com/mbmkongo/caisse_management_app/internal/dto"
)

// UserSvcFacade covers authentication and the privileged admin-only user
// management operations.
type UserSvcFacade interface {
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, actorUserID string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, requestingUserID string) ([]domain.User, error)
}
