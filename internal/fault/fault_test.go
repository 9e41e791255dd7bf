package fault_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/fintrack/internal/fault"
)

func TestInvalid(t *testing.T) {
	err := fault.Invalid("description", "is required")

	assert.True(t, errors.Is(err, fault.ErrValidation))
	assert.False(t, errors.Is(err, fault.ErrStorage))
	assert.Equal(t, "description: is required", err.Error())

	var vErr *fault.ValidationError
	assert.True(t, errors.As(fmt.Errorf("adding entry: %w", err), &vErr))
	assert.Equal(t, "description", vErr.Field)
}

func TestStorage(t *testing.T) {
	cause := errors.New("disk full")
	err := fault.Storage("writing entries", cause)

	assert.True(t, errors.Is(err, fault.ErrStorage))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "writing entries")
}
