package service

import (
	"context"
	"testing"
	"time"

	"github.com/ZertGraf/scrumboard/internal/domain"
	"github.com/ZertGraf/scrumboard/internal/pkg/logger"
	"github.com/ZertGraf/scrumboard/internal/session"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json"})
	require.NoError(t, err)
	return log
}

func newAuthService(t *testing.T, users *userRepoMock) (*AuthService, *session.Store) {
	t.Helper()
	sessions := session.NewStore(time.Hour)
	return NewAuthService(users, sessions, testLogger(t), bcrypt.MinCost), sessions
}

func TestSignupCreatesEmployee(t *testing.T) {
	users := new(userRepoMock)
	svc, sessions := newAuthService(t, users)

	users.On("GetByEmail", mock.Anything, "ann@x.com").Return(nil, domain.ErrUserNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleEmployee && u.Email == "ann@x.com" && u.PasswordHash != "pw"
	})).Return(&domain.User{
		ID:    "1",
		Name:  "Ann",
		Email: "ann@x.com",
		Role:  domain.RoleEmployee,
	}, nil)

	user, sess, err := svc.Signup(context.Background(), &SignupInput{
		Name:     "Ann",
		Email:    "ann@x.com",
		Password: "pw",
	})
	require.NoError(t, err)
	require.Equal(t, "1", user.ID)
	require.Equal(t, domain.RoleEmployee, user.Role)

	// signup opens a session immediately
	got, ok := sessions.Get(sess.Token)
	require.True(t, ok)
	require.Equal(t, "1", got.UserID)

	users.AssertExpectations(t)
}

func TestSignupEmailWithoutAtRejectedBeforeStore(t *testing.T) {
	users := new(userRepoMock)
	svc, _ := newAuthService(t, users)

	_, _, err := svc.Signup(context.Background(), &SignupInput{
		Name:     "Ann",
		Email:    "ann.x.com",
		Password: "pw",
	})
	require.Error(t, err)

	var vErrs validation.Errors
	require.ErrorAs(t, err, &vErrs)
	require.Contains(t, vErrs["email"].Error(), "must contain @")

	// a validation failure never reaches the repository
	users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignupMissingFields(t *testing.T) {
	users := new(userRepoMock)
	svc, _ := newAuthService(t, users)

	_, _, err := svc.Signup(context.Background(), &SignupInput{})
	require.Error(t, err)

	var vErrs validation.Errors
	require.ErrorAs(t, err, &vErrs)
	require.Contains(t, vErrs, "name")
	require.Contains(t, vErrs, "email")
	require.Contains(t, vErrs, "password")
}

func TestSignupDuplicateEmail(t *testing.T) {
	users := new(userRepoMock)
	svc, _ := newAuthService(t, users)

	users.On("GetByEmail", mock.Anything, "ann@x.com").Return(&domain.User{ID: "1"}, nil)

	_, _, err := svc.Signup(context.Background(), &SignupInput{
		Name:     "Ann",
		Email:    "ann@x.com",
		Password: "pw",
	})
	require.ErrorIs(t, err, domain.ErrEmailExists)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLoginSucceedsWithSignupCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)

	users := new(userRepoMock)
	svc, sessions := newAuthService(t, users)

	users.On("GetByEmail", mock.Anything, "ann@x.com").Return(&domain.User{
		ID:           "1",
		Name:         "Ann",
		Email:        "ann@x.com",
		PasswordHash: string(hash),
		Role:         domain.RoleEmployee,
	}, nil)

	user, sess, err := svc.Login(context.Background(), &LoginInput{
		Email:    "ann@x.com",
		Password: "pw",
	})
	require.NoError(t, err)
	require.Equal(t, "1", user.ID)

	got, ok := sessions.Get(sess.Token)
	require.True(t, ok)
	require.Equal(t, domain.RoleEmployee, got.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)

	users := new(userRepoMock)
	svc, _ := newAuthService(t, users)

	users.On("GetByEmail", mock.Anything, "ann@x.com").Return(&domain.User{
		ID:           "1",
		PasswordHash: string(hash),
	}, nil)

	_, _, err = svc.Login(context.Background(), &LoginInput{
		Email:    "ann@x.com",
		Password: "wrong",
	})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

// An unknown email reports the same error as a wrong password.
func TestLoginUnknownEmail(t *testing.T) {
	users := new(userRepoMock)
	svc, _ := newAuthService(t, users)

	users.On("GetByEmail", mock.Anything, "ghost@x.com").Return(nil, domain.ErrUserNotFound)

	_, _, err := svc.Login(context.Background(), &LoginInput{
		Email:    "ghost@x.com",
		Password: "pw",
	})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogoutDropsSession(t *testing.T) {
	users := new(userRepoMock)
	svc, sessions := newAuthService(t, users)

	sess := sessions.Create(&domain.User{ID: "1", Role: domain.RoleEmployee})
	svc.Logout(sess.Token)

	_, ok := sessions.Get(sess.Token)
	require.False(t, ok)
}
