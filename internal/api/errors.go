package api

import (
	"errors"
	"net/http"
)

type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Message: "bad request"}
	ErrUnauthorized   = &AppError{Code: http.StatusUnauthorized, Message: "unauthorized"}
	ErrForbidden      = &AppError{Code: http.StatusForbidden, Message: "forbidden"}
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Message: "not found"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "internal server error"}

	// Auth taxonomy. Bad credentials is deliberately generic: it never
	// distinguishes "user not found" from "wrong password".
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "invalid email or password"}
	ErrEmailAlreadyExists = &AppError{Code: http.StatusConflict, Message: "email already registered"}
	ErrWeakPassword       = &AppError{Code: http.StatusBadRequest, Message: "password too weak (6 characters minimum)"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "invalid or expired token"}

	// Scoring workflow taxonomy.
	ErrQuotaExhausted    = &AppError{Code: http.StatusForbidden, Message: "no remaining uses"}
	ErrPlanRestricted    = &AppError{Code: http.StatusForbidden, Message: "feature not available on current plan"}
	ErrQuotaUpdateFailed = &AppError{Code: http.StatusInternalServerError, Message: "quota update failed"}
	ErrUploadFailed      = &AppError{Code: http.StatusBadGateway, Message: "image upload failed"}
	ErrCompareNotReady   = &AppError{Code: http.StatusConflict, Message: "both patterns must be scored before comparison"}

	ErrValidation = &AppError{Code: http.StatusBadRequest, Message: "validation error"}
)

func NewBadRequestError(msg string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: msg}
}

func NewValidationError(msg string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: msg}
}

func HandleError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		JSONErrorMessage(w, appErr.Code, appErr.Message)
		return
	}
	JSONErrorMessage(w, http.StatusInternalServerError, "internal server error")
}
