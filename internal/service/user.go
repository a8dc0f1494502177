package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ZertGraf/scrumboard/internal/domain"
	"github.com/ZertGraf/scrumboard/internal/pkg/logger"
	"github.com/ZertGraf/scrumboard/internal/repository"
	. "github.com/go-ozzo/ozzo-validation"
)

type UserService struct {
	users      repository.UserRepository
	logger     *logger.Logger
	bcryptCost int
}

func NewUserService(users repository.UserRepository, logger *logger.Logger, bcryptCost int) *UserService {
	return &UserService{
		users:      users,
		logger:     logger.Component("service/user"),
		bcryptCost: bcryptCost,
	}
}

type CreateUserInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// ListEmployees returns every non-admin user for the admin profile view and
// the task assignment selector.
func (s *UserService) ListEmployees(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return users, nil
}

// Create adds a user with an explicit role. This is the admin-only path; it
// is the only way besides seed data to create another admin.
func (s *UserService) Create(ctx context.Context, in *CreateUserInput) (*domain.User, error) {
	err := ValidateStruct(in,
		Field(&in.Name, Required, Length(1, 255)),
		Field(&in.Email, emailRules()...),
		Field(&in.Password, Required, Length(1, 255)),
		Field(&in.Role, Required, In(domain.RoleAdmin, domain.RoleEmployee)),
	)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := hashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created",
		"user_id", created.ID,
		"role", created.Role,
	)

	return created, nil
}

// EnsureSeedAdmin creates the configured admin account on first start.
// A no-op when seeding is not configured or the account already exists.
func (s *UserService) EnsureSeedAdmin(ctx context.Context, name, email, password string) error {
	if email == "" {
		return nil
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("check seed admin: %w", err)
	}

	if name == "" {
		name = "Administrator"
	}

	created, err := s.Create(ctx, &CreateUserInput{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	s.logger.Info("seed admin created", "user_id", created.ID)
	return nil
}
