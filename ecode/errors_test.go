package ecode

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	base := errors.New("dial tcp: timeout")
	wrapped := fmt.Errorf("search: %w", Unavailable("index search", base))

	assert.Equal(t, OK, CodeOf(nil))
	assert.Equal(t, ServerErr, CodeOf(base))
	assert.Equal(t, BackendUnavailable, CodeOf(wrapped))
	assert.True(t, IsUnavailable(wrapped))
	assert.ErrorIs(t, wrapped, base)
	assert.True(t, IsInvalid(Invalid("size", "must be positive")))
	assert.True(t, IsNotFound(Missing("listing")))
	assert.False(t, IsNotFound(nil))
}

func TestToHTTPStatus(t *testing.T) {
	tests := map[int]int{
		OK:                 http.StatusOK,
		InvalidQuery:       http.StatusBadRequest,
		NotFound:           http.StatusNotFound,
		BackendUnavailable: http.StatusServiceUnavailable,
		-12345:             http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, ToHTTPStatus(code), "code %d", code)
	}
}

func TestErrorMessage(t *testing.T) {
	err := Invalid("page", "must be at least 1")
	assert.Equal(t, "page invalid: must be at least 1", err.Error())
	assert.Equal(t, "listing does not exist", Missing("listing").Error())
	assert.Equal(t, "Search backend unavailable", Text(BackendUnavailable))
}
