package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIProxyRewritesHostAndKeepsHeaders(t *testing.T) {
	var gotPath, gotAuth string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	proxy, err := newAPIProxy(upstream.URL)
	require.NoError(t, err)

	// Mounted exactly like the server does it.
	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", proxy))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/affiliates", nil)
	req.Header.Set("Authorization", "Bearer Bearer tok-1")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/admin/affiliates", gotPath)
	assert.Equal(t, "Bearer Bearer tok-1", gotAuth)
}

func TestAPIProxyRejectsUnparsableTarget(t *testing.T) {
	_, err := newAPIProxy("://nope")
	assert.Error(t, err)
}
