package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMessage(t *testing.T) {
	err := NotFound("patient", sql.ErrNoRows)
	assert.Equal(t, "patient not found: sql: no rows in result set", err.Error())
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.Equal(t, "user not bound to a clinic", ErrUserNotBound.Error())
}

func TestIsMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("add patient: %w", ErrUserNotBound)
	assert.True(t, errors.Is(wrapped, ErrUserNotBound))
	assert.False(t, errors.Is(BadRequest("x", nil), ErrUserNotBound))
}

func TestBackendKeepsNotFound(t *testing.T) {
	nf := NotFound("appointment", nil)
	assert.Same(t, nf, Backend("update appointment", fmt.Errorf("wrap: %w", nf)))

	err := Backend("add patient", errors.New("connection refused"))
	assert.Equal(t, ErrBackend, err.Code)
	assert.Equal(t, "failed to add patient: connection refused", err.Error())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrBadRequest, CodeOf(fmt.Errorf("x: %w", BadRequest("bad", nil))))
	assert.Equal(t, ErrInternal, CodeOf(errors.New("plain")))
}
