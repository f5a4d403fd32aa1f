package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mbmkongo/caisse_management_app/internal/apperrors"
	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	portsrepo "github.com/mbmkongo/caisse_management_app/internal/core/ports/repositories"
	portssvc "github.com/mbmkongo/caisse_management_app/internal/core/ports/services"
	"github.com/mbmkongo/caisse_management_app/internal/dto"
	"github.com/mbmkongo/caisse_management_app/internal/middleware"
	"github.com/mbmkongo/caisse_management_app/internal/utils"
)

// validRoles lists every role an admin can assign at user creation.
var validRoles = map[domain.Role]bool{
	domain.RoleAdmin:      true,
	domain.RoleRespCompta: true,
	domain.RoleLogistique: true,
}

func isAssignableRole(role domain.Role) bool {
	return validRoles[role] || role.IsCashier()
}

// userService covers authentication and the admin-only user management.
type userService struct {
	userRepo portsrepo.UserRepositoryFacade
	authzSvc portssvc.AuthzSvcFacade
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, authzSvc portssvc.AuthzSvcFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, authzSvc: authzSvc}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// Authenticate verifies the credentials and returns the user on success.
// Unknown email and wrong password come back as the same ErrUnauthorized, so
// the endpoint cannot be used to enumerate accounts.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, passwordHash, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAppError(401, "invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(password, passwordHash) {
		logger.Warn("Failed login attempt", slog.String("user_id", user.UserID))
		return nil, apperrors.NewAppError(401, "invalid credentials", apperrors.ErrUnauthorized)
	}

	return user, nil
}

// CreateUser creates a user with a role. Admin only.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.authzSvc.Authorize(ctx, creatorUserID, domain.CapManageUsers); err != nil {
		return nil, err
	}

	role := domain.Role(req.Role)
	if !isAssignableRole(role) {
		return nil, apperrors.NewAppError(400, "unknown role "+req.Role, apperrors.ErrValidation)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to hash password", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:   uuid.NewString(),
		Email:    req.Email,
		FullName: req.FullName,
		Role:     role,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.userRepo.CreateUser(ctx, user, passwordHash); err != nil {
		return nil, err
	}

	logger.Info("User created",
		slog.String("user_id", user.UserID),
		slog.String("role", string(user.Role)),
		slog.String("creator_id", creatorUserID))

	return &user, nil
}

// UpdateUser updates a user's identity fields. Admin only; the role is not
// updatable through this path.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, actorUserID string) (*domain.User, error) {
	if _, err := s.authzSvc.Authorize(ctx, actorUserID, domain.CapManageUsers); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = actorUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves one user profile.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// ListUsers lists all active users. Admin only.
func (s *userService) ListUsers(ctx context.Context, requestingUserID string) ([]domain.User, error) {
	if _, err := s.authzSvc.Authorize(ctx, requestingUserID, domain.CapManageUsers); err != nil {
		return nil, err
	}
	return s.userRepo.ListUsers(ctx)
}
