package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/sportstore/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantOut    string
	}{
		{"duplicate", common.ErrDuplicateEmail, http.StatusBadRequest, "email is already registered", "duplicate_email"},
		{"validation", common.Validationf("gender must be one of male, female, other"), http.StatusBadRequest, "validation error: gender must be one of male, female, other", "invalid_input"},
		{"nothing to update", common.ErrNothingToUpdate, http.StatusBadRequest, "validation error: nothing to update", "invalid_input"},
		{"credentials", common.ErrInvalidCredentials, http.StatusUnauthorized, "incorrect email or password", "invalid_credentials"},
		{"token", common.ErrInvalidToken, http.StatusUnauthorized, "invalid or expired token", "unauthenticated"},
		{"no token", common.ErrorUnauthorized, http.StatusUnauthorized, "not authenticated", "unauthenticated"},
		{"not found", fmt.Errorf("lookup: %w", common.ErrorNotFound), http.StatusTeapot, "account not found", "not_found"},
		{"internal wins", fmt.Errorf("%w: insert: %w", common.ErrorInternal, common.ErrorNotFound), http.StatusInternalServerError, internalErrorMessage, "error"},
		{"unknown", errors.New("connection reset by peer"), http.StatusInternalServerError, internalErrorMessage, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := statusFor(tt.err, http.StatusTeapot)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
			assert.Equal(t, tt.wantOut, outcome(tt.err))
		})
	}

	assert.Equal(t, "success", outcome(nil))
}
