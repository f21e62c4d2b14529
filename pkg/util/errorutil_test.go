package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorCodes(t *testing.T) {
	assert.True(t, IsCode(NewNotFound("ticket", nil), "NOT_FOUND"))
	assert.True(t, IsCode(NewForbidden("no"), "FORBIDDEN"))
	assert.True(t, IsCode(NewValidationError("bad", nil), "VALIDATION_FAILED"))
	assert.True(t, IsCode(NewUnauthorized("who"), "UNAUTHORIZED"))
	assert.True(t, IsCode(NewConflict("busy", nil), "CONFLICT"))
	assert.False(t, IsCode(errors.New("plain"), "NOT_FOUND"))
	assert.False(t, IsCode(nil, "NOT_FOUND"))
}

func TestToDomainErrorPassesThrough(t *testing.T) {
	original := NewForbidden("no")
	mapped := ToDomainError(original)
	require.NotNil(t, mapped)
	assert.Equal(t, "FORBIDDEN", mapped.Code)
	assert.Equal(t, http.StatusForbidden, mapped.HTTPStatus)
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	require.NotNil(t, mapped)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	cause := errors.New("pipe burst")
	mapped := ToDomainError(cause)
	require.NotNil(t, mapped)
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.ErrorIs(t, mapped, cause)
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
	assert.NoError(t, MapError(nil))
}
