package customErrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: fmt.Errorf("%w: missing", ErrNotFound), want: CodeNotFound},
		{err: fmt.Errorf("%w: bad amount", ErrInvalidInput), want: CodeInvalidInput},
		{err: fmt.Errorf("failed to add expense: %w", fmt.Errorf("%w: %w", ErrPersist, errors.New("disk full"))), want: CodePersist},
		{err: errors.New("boom"), want: CodeInternal},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, CodeOf(tt.err), tt.err.Error())
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(ErrInvalidInput, "Please enter a description")
	require.Equal(t, ErrorResponse{Code: CodeInvalidInput, Message: "Please enter a description"}, resp)
	require.Equal(t, "code: INVALID INPUT, message: Please enter a description", resp.Error())
}
