package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAndCodeOf(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", MatchInactive())

	assert.True(t, Is(err, CodeMatchInactive))
	assert.False(t, Is(err, CodeNotAParticipant))
	assert.Equal(t, CodeMatchInactive, CodeOf(err))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
}

func TestStatuses(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, Unauthenticated().Status)
	assert.Equal(t, http.StatusBadRequest, InvalidMatch("bad", nil).Status)
	assert.Equal(t, http.StatusForbidden, MatchInactive().Status)
	assert.Equal(t, http.StatusForbidden, NotAParticipant().Status)
	assert.Equal(t, http.StatusBadRequest, EmptyMessage().Status)
	assert.Equal(t, http.StatusTooManyRequests, RateLimited().Status)
	assert.Equal(t, http.StatusInternalServerError, StoreFailure("x", nil).Status)
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("cause")
	assert.ErrorIs(t, StoreFailure("x", cause), cause)
}
