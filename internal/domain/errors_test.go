package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Directorio-api/internal/domain"
)

func TestError_UnwrapAKind(t *testing.T) {
	err := domain.NewError(domain.ErrConflict, "duplicate email")

	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.False(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, "conflict: duplicate email", err.Error())
}

func TestMessageOf(t *testing.T) {
	wrapped := fmt.Errorf("create user: %w", domain.NewError(domain.ErrInvalidInput, "invalid user data"))

	assert.Equal(t, "invalid user data", domain.MessageOf(wrapped, "fallback"))
	assert.Equal(t, "fallback", domain.MessageOf(errors.New("boom"), "fallback"))
	assert.Equal(t, "fallback", domain.MessageOf(domain.NewError(domain.ErrNotFound, ""), "fallback"))
}
