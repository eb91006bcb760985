package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindMatching(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{Unauthenticated("must sign in"), ErrUnauthenticated},
		{Forbidden("nope"), ErrForbidden},
		{NotFound("list not found"), ErrNotFound},
		{Validation("Quantity must be at least 0.01"), ErrValidation},
		{BusinessRule("owner cannot leave"), ErrBusinessRule},
		{AlreadyExists("email taken"), ErrAlreadyExists},
	}

	for _, tt := range tests {
		require.ErrorIs(t, tt.err, tt.kind)
		require.NotErrorIs(t, tt.err, errors.New(tt.kind.Error()))
	}
}

func TestWrappedContextKeepsKindAndMessage(t *testing.T) {
	base := Validation("Quantity must be at least 0.01")
	wrapped := fmt.Errorf("failed to add item to list: %w", base)

	require.ErrorIs(t, wrapped, ErrValidation)
	require.NotErrorIs(t, wrapped, ErrForbidden)
	require.Equal(t, "Quantity must be at least 0.01", UserMessage(wrapped))
	require.Equal(t, "failed to add item to list: Quantity must be at least 0.01", wrapped.Error())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(ErrNotFound, "item not found", cause)

	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "item not found", UserMessage(err))
}

func TestUserMessagePlainError(t *testing.T) {
	require.Empty(t, UserMessage(errors.New("boom")))
}
