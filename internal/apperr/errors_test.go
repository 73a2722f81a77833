package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestKindOfWrapped(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := fmt.Errorf("create listing: %w", Wrap(KindUpstreamUnavailable, "Image upload failed, please try again.", cause))

	require.Equal(t, KindUpstreamUnavailable, KindOf(err))
	require.True(t, Is(err, KindUpstreamUnavailable))
	require.ErrorIs(t, err, cause)
	require.Equal(t, "Image upload failed, please try again.", Message(err))
}

func TestKindOfPlainError(t *testing.T) {
	err := errors.New("boom")
	require.Equal(t, KindInternal, KindOf(err))
	require.Empty(t, Message(err))
	require.False(t, Is(err, KindNotFound))
}

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindUnauthenticated, fiber.StatusUnauthorized},
		{KindNotAuthorized, fiber.StatusForbidden},
		{KindNotFound, fiber.StatusNotFound},
		{KindValidation, fiber.StatusBadRequest},
		{KindConflict, fiber.StatusConflict},
		{KindUpstreamUnavailable, fiber.StatusServiceUnavailable},
		{KindInternal, fiber.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			require.Equal(t, tc.want, tc.kind.Status())
		})
	}
}
