package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrScrumNotFound      = errors.New("scrum not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("operation not permitted for this role")
	ErrNotEmployee        = errors.New("assignee must be an employee user")
	ErrMalformedID        = errors.New("malformed record identifier")
)
