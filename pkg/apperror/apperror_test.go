package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewNotFound("skill", "42"), http.StatusNotFound},
		{"invalid", NewInvalidInput("bad body", nil), http.StatusBadRequest},
		{"conflict", NewConflict("profile", "key", "current"), http.StatusConflict},
		{"internal", NewInternal("db down", errors.New("dial tcp")), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("add skill failed: %w", NewNotFound("profile", "current")), http.StatusNotFound},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ToHTTPStatus(tc.err))
		})
	}
}

func TestAppError_UnwrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := NewInternal("write picture", cause)

	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, cause)
}

func TestToJSON_SurfacesInternalCause(t *testing.T) {
	body := NewInternal("failed to save profile", errors.New("connection refused")).ToJSON()

	assert.Equal(t, "internal server error", body["error"])
	assert.Equal(t, "failed to save profile: connection refused", body["details"])
}

func TestNewInvalidInput_UsesCauseAsMessage(t *testing.T) {
	err := NewInvalidInput("skill rejected", errors.New("skill rating must be between 1 and 5"))

	assert.Equal(t, "skill rating must be between 1 and 5", err.Message)
	assert.Equal(t, "skill rejected", err.ToJSON()["details"])
}

func TestFrom(t *testing.T) {
	nf := NewNotFound("education", "x")
	assert.Same(t, nf, From(fmt.Errorf("wrap: %w", nf)))

	wrapped := From(errors.New("boom"))
	assert.ErrorIs(t, wrapped, ErrInternal)
}
