package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatusMapping(t *testing.T) {
	tests := []struct {
		err         *Error
		status      int
		operational bool
	}{
		{BadRequest("bad"), http.StatusBadRequest, true},
		{Unauthorized("no"), http.StatusUnauthorized, true},
		{Forbidden("no"), http.StatusForbidden, true},
		{NotFound("gone"), http.StatusNotFound, true},
		{Conflict("dup"), http.StatusConflict, true},
		{Internal("boom"), http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.Status)
		assert.Equal(t, tt.operational, tt.err.Operational)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("Failed to register user").Wrap(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Failed to register user: connection refused", err.Error())
	// the client-facing message never includes the cause
	assert.Equal(t, "Failed to register user", err.Message)
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	var appErr *Error
	wrapped := error(Conflict("User already exists"))
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, KindConflict, appErr.Kind)
}
