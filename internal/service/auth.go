package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ZertGraf/scrumboard/internal/domain"
	"github.com/ZertGraf/scrumboard/internal/pkg/logger"
	"github.com/ZertGraf/scrumboard/internal/repository"
	"github.com/ZertGraf/scrumboard/internal/session"
	. "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type AuthService struct {
	users      repository.UserRepository
	sessions   *session.Store
	logger     *logger.Logger
	bcryptCost int
}

func NewAuthService(
	users repository.UserRepository,
	sessions *session.Store,
	logger *logger.Logger,
	bcryptCost int,
) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		logger:     logger.Component("service/auth"),
		bcryptCost: bcryptCost,
	}
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// mustContainAt mirrors the front-end rule that rejected addresses without an
// @ before any request was made; here it runs before the store is touched.
func mustContainAt(value interface{}) error {
	email, _ := value.(string)
	if email != "" && !strings.Contains(email, "@") {
		return errors.New("must contain @")
	}
	return nil
}

func emailRules() []Rule {
	return []Rule{
		Required,
		By(mustContainAt),
		is.Email,
		Length(1, 255),
	}
}

// Signup registers a new employee account and opens a session for it.
// The role is always employee; only an admin can create other roles.
func (s *AuthService) Signup(ctx context.Context, in *SignupInput) (*domain.User, *session.Session, error) {
	err := ValidateStruct(in,
		Field(&in.Name, Required, Length(1, 255)),
		Field(&in.Email, emailRules()...),
		Field(&in.Password, Required, Length(1, 255)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := hashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleEmployee,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	sess := s.sessions.Create(created)

	s.logger.Info("user signed up",
		"user_id", created.ID,
		"role", created.Role,
	)

	return created, sess, nil
}

// Login performs the server-side credential check and opens a session.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in *LoginInput) (*domain.User, *session.Session, error) {
	err := ValidateStruct(in,
		Field(&in.Email, emailRules()...),
		Field(&in.Password, Required),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	if !checkPassword(user.PasswordHash, in.Password) {
		return nil, nil, domain.ErrInvalidCredentials
	}

	sess := s.sessions.Create(user)

	s.logger.Info("user logged in",
		"user_id", user.ID,
		"role", user.Role,
	)

	return user, sess, nil
}

func (s *AuthService) Logout(token string) {
	s.sessions.Delete(token)
}
