package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatching(t *testing.T) {
	t.Run("sentinel matches itself", func(t *testing.T) {
		assert.ErrorIs(t, ErrNoStakeFound, ErrNoStakeFound)
	})

	t.Run("detailed copy still matches the sentinel", func(t *testing.T) {
		err := ErrStakeStillLocked.WithMessagef("stake unlocks at %d", 123)
		assert.ErrorIs(t, err, ErrStakeStillLocked)
		assert.Contains(t, err.Error(), "123")
	})

	t.Run("wrapped error matches", func(t *testing.T) {
		err := fmt.Errorf("operation failed: %w", ErrInvalidAmount)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		var ledgerErr *Error
		assert.True(t, errors.As(err, &ledgerErr))
		assert.Equal(t, KindValidation, ledgerErr.Kind)
	})

	t.Run("different codes never match", func(t *testing.T) {
		assert.NotErrorIs(t, ErrNoStakeFound, ErrExistingStakeFound)
	})
}
