package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", Validation("Product %d not found", 7), http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("reserve: %w", Validation("bad")), http.StatusBadRequest},
		{"not found", NotFound("Order not found"), http.StatusNotFound},
		{"unauthorized", Unauthorized("Invalid or expired token"), http.StatusUnauthorized},
		{"forbidden", Forbidden("Access denied"), http.StatusForbidden},
		{"other", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}

func TestValidationMessage(t *testing.T) {
	err := Validation("Insufficient stock for %s. Available: %d", "Gạo ST25", 5)

	assert.EqualError(t, err, "Insufficient stock for Gạo ST25. Available: 5")
	assert.True(t, IsValidation(err))
	assert.False(t, IsNotFound(err))
}
