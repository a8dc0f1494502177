package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZertGraf/scrumboard/internal/domain"
	"github.com/ZertGraf/scrumboard/internal/pkg/logger"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json"})
	require.NoError(t, err)
	return log
}

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   ErrorCode
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, CodeForbidden},
		{"email exists", domain.ErrEmailExists, http.StatusConflict, CodeEmailExists},
		{"not employee", domain.ErrNotEmployee, http.StatusUnprocessableEntity, CodeNotEmployee},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, CodeNotFound},
		{"scrum not found", domain.ErrScrumNotFound, http.StatusNotFound, CodeNotFound},
		{"task not found", domain.ErrTaskNotFound, http.StatusNotFound, CodeNotFound},
		{"unexpected", fmt.Errorf("pool exhausted"), http.StatusInternalServerError, CodeInternal},
	}

	log := testLogger(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err, log)

			require.Equal(t, tt.wantStatus, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			require.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

// Wrapped domain errors still map by errors.Is.
func TestWriteErrorUnwrapsCause(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("get scrum: %w", domain.ErrScrumNotFound), testLogger(t))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWriteErrorValidation(t *testing.T) {
	vErr := validation.Errors{"email": fmt.Errorf("must contain @")}

	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("validation failed: %w", vErr), testLogger(t))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, CodeValidation, body.Error.Code)
	require.Contains(t, body.Error.Message, "must contain @")
}

// Internal failures never leak their cause to the client.
func TestWriteErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("connect: password authentication failed"), testLogger(t))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "internal server error", body.Error.Message)
}
