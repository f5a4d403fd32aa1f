package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mbmkongo/caisse_management_app/internal/apperrors"
	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	portsrepo "github.com/mbmkongo/caisse_management_app/internal/core/ports/repositories"
	"github.com/mbmkongo/caisse_management_app/internal/models"
	"github.com/mbmkongo/caisse_management_app/internal/utils/mapping"
)

const selectUserColumns = `
	SELECT user_id, email, full_name, role, password_hash,
	       created_at, created_by, last_updated_at, last_updated_by, deleted_at
	FROM users
`

type PgxUserRepository struct {
	db *pgxpool.Pool
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{db: db}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

// CreateUser inserts a new user row with its role and credential hash.
func (r *PgxUserRepository) CreateUser(ctx context.Context, user domain.User, passwordHash string) error {
	query := `
		INSERT INTO users (user_id, email, full_name, role, password_hash, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.db.Exec(ctx, query,
		user.UserID,
		user.Email,
		user.FullName,
		string(user.Role),
		passwordHash,
		user.CreatedAt,
		user.CreatedBy,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "user with email "+user.Email+" already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateUser updates the mutable profile fields of a user.
func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	query := `
		UPDATE users
		SET email = $2,
		    full_name = $3,
		    role = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		user.UserID,
		user.Email,
		user.FullName,
		string(user.Role),
		user.LastUpdatedAt,
		user.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "user with email "+user.Email+" already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update user %s: %w", user.UserID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("user " + user.UserID + " not found for update")
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := selectUserColumns + ` WHERE user_id = $1 AND deleted_at IS NULL;`

	modelUser, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}

	domainUser := mapping.ToDomainUser(modelUser)
	return &domainUser, nil
}

// FindUserByEmail also returns the stored password hash for credential
// checks. The hash never travels past the authentication service.
func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	query := selectUserColumns + ` WHERE email = $1 AND deleted_at IS NULL;`

	modelUser, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperrors.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to find user by email: %w", err)
	}

	domainUser := mapping.ToDomainUser(modelUser)
	return &domainUser, modelUser.PasswordHash, nil
}

func (r *PgxUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	query := selectUserColumns + ` WHERE deleted_at IS NULL ORDER BY created_at;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	modelUsers := []models.User{}
	for rows.Next() {
		m, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", scanErr)
		}
		modelUsers = append(modelUsers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return mapping.ToDomainUserSlice(modelUsers), nil
}

// scanUser scans one users row in selectUserColumns order.
func scanUser(row pgx.Row) (models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Email,
		&m.FullName,
		&m.Role,
		&m.PasswordHash,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	return m, err
}
