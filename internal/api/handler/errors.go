package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ZertGraf/scrumboard/internal/domain"
	"github.com/ZertGraf/scrumboard/internal/pkg/logger"
	validation "github.com/go-ozzo/ozzo-validation"
)

type ErrorCode string

const (
	CodeValidation         ErrorCode = "VALIDATION"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeEmailExists        ErrorCode = "EMAIL_EXISTS"
	CodeNotEmployee        ErrorCode = "NOT_EMPLOYEE"
	CodeInternal           ErrorCode = "INTERNAL_ERROR"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func WriteError(w http.ResponseWriter, err error, logger *logger.Logger) {
	status, response := mapError(err)

	if status < http.StatusInternalServerError {
		logger.Warn("request error",
			"error", err.Error(),
			"code", response.Error.Code,
		)
	} else {
		logger.Error("unexpected error",
			"error", err.Error(),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

func mapError(err error) (int, ErrorResponse) {
	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		return http.StatusBadRequest, errResponse(CodeValidation, vErrs.Error())
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errResponse(CodeInvalidCredentials, err.Error())

	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, errResponse(CodeUnauthorized, err.Error())

	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errResponse(CodeForbidden, err.Error())

	case errors.Is(err, domain.ErrEmailExists):
		return http.StatusConflict, errResponse(CodeEmailExists, err.Error())

	case errors.Is(err, domain.ErrNotEmployee):
		return http.StatusUnprocessableEntity, errResponse(CodeNotEmployee, err.Error())

	case errors.Is(err, domain.ErrMalformedID):
		return http.StatusInternalServerError, errResponse(CodeInternal, err.Error())

	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrScrumNotFound),
		errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, errResponse(CodeNotFound, err.Error())

	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Code:    CodeInternal,
				Message: "internal server error",
			},
		}
	}
}

func errResponse(code ErrorCode, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}
