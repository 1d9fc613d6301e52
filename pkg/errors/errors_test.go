package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeInsufficientBalance, CodeOf(New(CodeInsufficientBalance, "short")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestHasCode(t *testing.T) {
	err := New(CodeUnauthorized, "not the owner")
	assert.True(t, HasCode(err, CodeUnauthorized))
	assert.False(t, HasCode(err, CodeInvalidRecipient))
	assert.False(t, HasCode(errors.New("plain"), CodeUnauthorized))
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeInsufficientBalance, http.StatusUnprocessableEntity},
		{CodeInsufficientAllowance, http.StatusUnprocessableEntity},
		{CodeUnauthorized, http.StatusForbidden},
		{CodeInvalidRecipient, http.StatusBadRequest},
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeInternal, http.StatusInternalServerError},
		{Code("unknown"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToHTTPStatus(tt.code), string(tt.code))
	}
}
