package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// viewState is the per-page machine. Terminal states re-enter loading on
// refresh or tab change.
type viewState int

const (
	stateIdle viewState = iota
	stateLoading
	stateSuccess
	stateError
)

const (
	// How long an expired-session banner stays up before the forced logout.
	logoutDelay = 2 * time.Second
	// How long the copied-link indicator stays on.
	copiedReset = 2 * time.Second
)

var errSessionExpired = errors.New("Session expired. Please login again.")

// logoutLatch makes the delayed logout fire at most once per 401
// occurrence. arm reports whether the caller won the right to schedule it.
type logoutLatch bool

func (l *logoutLatch) arm() bool {
	if *l {
		return false
	}
	*l = true
	return true
}

// fetchEpoch invalidates in-flight fetches on refresh or tab change so a
// stale response can't populate the wrong tab. Each fetch captures next()
// and checks stale() when its response comes back.
type fetchEpoch int

func (e *fetchEpoch) next() fetchEpoch {
	*e++
	return *e
}

func (e fetchEpoch) stale(seq fetchEpoch) bool {
	return seq != e
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// responseError maps a non-success status to the message shown in a page's
// error region. 401 always resolves to errSessionExpired so callers can
// recognize it and schedule the logout.
func responseError(status int, forbidden, action string) error {
	switch status {
	case http.StatusUnauthorized:
		return errSessionExpired
	case http.StatusForbidden:
		return errors.New(forbidden)
	default:
		return fmt.Errorf("Failed to %s (Status: %d)", action, status)
	}
}
