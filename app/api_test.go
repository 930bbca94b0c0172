package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequestJoinsPaths(t *testing.T) {
	tests := []struct {
		endpoint string
		want     string
	}{
		{"login", "/api/login"},
		{"/login", "/api/login"},
		{"admin/affiliates", "/api/admin/affiliates"},
		{"register/ADMIN-SECURE-LINK-2024", "/api/register/ADMIN-SECURE-LINK-2024"},
	}
	for _, tt := range tests {
		req, err := buildRequest(tt.endpoint, requestOptions{})
		require.NoError(t, err)
		assert.Equal(t, tt.want, req.URL.Path)
		assert.Equal(t, http.MethodGet, req.Method)
	}
}

func TestBuildRequestDefaultsContentType(t *testing.T) {
	req, err := buildRequest("login", requestOptions{
		Method: http.MethodPost,
		Body:   strings.NewReader(`{}`),
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
}

func TestBuildRequestCallerHeadersWin(t *testing.T) {
	req, err := buildRequest("affiliate/profile", requestOptions{
		Headers: map[string]string{
			"Content-Type":  "text/plain",
			"Authorization": "Bearer Bearer tok",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "text/plain", req.Header.Get("Content-Type"))
	assert.Equal(t, "Bearer Bearer tok", req.Header.Get("Authorization"))
}

func TestAPIMessageText(t *testing.T) {
	assert.Equal(t, "a", apiMessage{Detail: "a", Message: "b", Error: "c"}.text())
	assert.Equal(t, "b", apiMessage{Message: "b", Error: "c"}.text())
	assert.Equal(t, "c", apiMessage{Error: "c"}.text())
	assert.Empty(t, apiMessage{}.text())
}
