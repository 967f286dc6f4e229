package service

import (
	"context"
	"fmt"
	"net/mail"

	"inventory-api/internal/domain"
	"inventory-api/internal/repository"

	"github.com/google/uuid"
)

// UserService defines user operations
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, name, email string) (*domain.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	newID    func() string
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{
		userRepo: userRepo,
		newID:    uuid.NewString,
	}
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}

// Create stores a user under a freshly generated identifier
func (s *userService) Create(ctx context.Context, name, email string) (*domain.User, error) {
	var check fieldChecker
	check.required("name", name)
	check.required("email", email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			check.add("email", "Invalid email format")
		}
	}
	if err := check.err(); err != nil {
		return nil, err
	}

	user := &domain.User{
		UserID: s.newID(),
		Name:   name,
		Email:  email,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}
