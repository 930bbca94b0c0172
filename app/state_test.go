package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSuccess(t *testing.T) {
	assert.True(t, isSuccess(http.StatusOK))
	assert.True(t, isSuccess(http.StatusCreated))
	assert.False(t, isSuccess(http.StatusMovedPermanently))
	assert.False(t, isSuccess(http.StatusBadRequest))
	assert.False(t, isSuccess(http.StatusInternalServerError))
}

func TestLogoutLatchFiresOnce(t *testing.T) {
	// A burst of 401s schedules exactly one delayed logout.
	var l logoutLatch
	assert.True(t, l.arm())
	assert.False(t, l.arm())
	assert.False(t, l.arm())
}

func TestResponseError(t *testing.T) {
	t.Run("401 is the session-expired sentinel", func(t *testing.T) {
		err := responseError(http.StatusUnauthorized, "no access", "fetch affiliates")
		assert.ErrorIs(t, err, errSessionExpired)
	})

	t.Run("403 uses the page wording", func(t *testing.T) {
		err := responseError(http.StatusForbidden, "Access denied. Admin only.", "fetch affiliates")
		assert.NotErrorIs(t, err, errSessionExpired)
		assert.EqualError(t, err, "Access denied. Admin only.")
	})

	t.Run("other statuses name the action", func(t *testing.T) {
		err := responseError(http.StatusInternalServerError, "no access", "fetch affiliates")
		assert.EqualError(t, err, "Failed to fetch affiliates (Status: 500)")
	})
}
