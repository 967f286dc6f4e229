package repository

import (
	"context"
	"fmt"

	"inventory-api/internal/domain"

	"github.com/jmoiron/sqlx"
)

var ErrUserAlreadyExists = fmt.Errorf("user with this id %w", domain.ErrConflict)

// UserRepository defines the interface for user data access
type UserRepository interface {
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}

type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// List retrieves all users ordered by name
func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT user_id, name, email
		FROM users
		ORDER BY name ASC, user_id ASC
	`

	users := []*domain.User{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, storeError("list users", err)
	}

	return users, nil
}

// Create inserts a new user using parameterized queries
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (user_id, name, email)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query, user.UserID, user.Name, user.Email)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUserAlreadyExists
		}
		return storeError("create user", err)
	}

	return nil
}
