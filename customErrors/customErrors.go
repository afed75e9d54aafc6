package customErrors

import (
	"errors"
	"fmt"
)

const (
	CodeNotFound     = "NOT FOUND"
	CodeInvalidInput = "INVALID INPUT"
	CodePersist      = "PERSIST"
	CodeInternal     = "INTERNAL"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrPersist      = errors.New("failed to persist ledger")
	ErrInternal     = errors.New("internal error")
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ErrorResponse) Error() string {
	return fmt.Sprintf("code: %s, message: %s", e.Code, e.Message)
}

// CodeOf maps a wrapped sentinel to its response code.
func CodeOf(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrPersist):
		return CodePersist
	default:
		return CodeInternal
	}
}

func NewErrorResponse(err error, message string) ErrorResponse {
	return ErrorResponse{
		Code:    CodeOf(err),
		Message: message,
	}
}
