package devapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLinkCode = "TEST-LINK-CODE"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"), testLinkCode)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(out))
}

// loginToken logs in and returns the raw token, stripped of the prefix the
// response bakes in.
func loginToken(t *testing.T, s *Server, email, password string) string {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	decode(t, w, &resp)
	require.True(t, strings.HasPrefix(resp["access_token"], "Bearer "))
	return strings.TrimPrefix(resp["access_token"], "Bearer ")
}

func registerApplicant(t *testing.T, s *Server, email string) {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/register/"+testLinkCode, "", map[string]string{
		"name":         "Ann Example",
		"email":        email,
		"password":     "Passw0rd!",
		"location":     "Lisbon",
		"language":     "English",
		"onemove_link": "https://onemove.example.com/ref/ann",
		"puprime_link": "https://puprime.example.com/ref/ann",
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

// approveFirstPending approves the only pending request and returns its id.
func approveFirstPending(t *testing.T, s *Server, adminToken string) int64 {
	t.Helper()
	w := doJSON(t, s, http.MethodGet, "/admin/pending-requests", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pending []pendingRow
	decode(t, w, &pending)
	require.Len(t, pending, 1)

	w = doJSON(t, s, http.MethodPost, "/admin/review-request", adminToken, map[string]any{
		"request_id": pending[0].ID, "approve": true, "reason": "Approved",
	})
	require.Equal(t, http.StatusOK, w.Code)
	return pending[0].ID
}

func TestLoginIssuesPrefixedToken(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodPost, "/login", "", map[string]string{
		"email": "admin@1move.local", "password": "Admin123!",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	decode(t, w, &resp)
	assert.True(t, strings.HasPrefix(resp["access_token"], "Bearer "))
	assert.Equal(t, "bearer", resp["token_type"])
}

func TestLoginRejectsBadPassword(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodPost, "/login", "", map[string]string{
		"email": "admin@1move.local", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireDoubleBearer(t *testing.T) {
	s := newTestServer(t)
	token := loginToken(t, s, "admin@1move.local", "Admin123!")

	// Single prefix is not enough.
	req := httptest.NewRequest(http.MethodGet, "/admin/affiliates", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Double prefix works.
	w = doJSON(t, s, http.MethodGet, "/admin/affiliates", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnknownTokenIs401(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodGet, "/admin/affiliates", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleMismatchIs403(t *testing.T) {
	s := newTestServer(t)
	adminToken := loginToken(t, s, "admin@1move.local", "Admin123!")
	registerApplicant(t, s, "ann@example.com")
	approveFirstPending(t, s, adminToken)

	affToken := loginToken(t, s, "ann@example.com", "Passw0rd!")
	w := doJSON(t, s, http.MethodGet, "/admin/affiliates", affToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, s, http.MethodGet, "/affiliate/profile", adminToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	t.Run("wrong link code", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPost, "/register/WRONG-CODE", "", map[string]string{})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("weak password", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPost, "/register/"+testLinkCode, "", map[string]string{
			"name": "Ann", "email": "weak@example.com", "password": "password",
			"onemove_link": "https://a.example.com", "puprime_link": "https://b.example.com",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad link", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPost, "/register/"+testLinkCode, "", map[string]string{
			"name": "Ann", "email": "badlink@example.com", "password": "Passw0rd!",
			"onemove_link": "not a url", "puprime_link": "https://b.example.com",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		registerApplicant(t, s, "dup@example.com")
		w := doJSON(t, s, http.MethodPost, "/register/"+testLinkCode, "", map[string]string{
			"name": "Ann", "email": "dup@example.com", "password": "Passw0rd!",
			"onemove_link": "https://a.example.com", "puprime_link": "https://b.example.com",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestReviewApproveMovesRequestToAffiliates(t *testing.T) {
	s := newTestServer(t)
	adminToken := loginToken(t, s, "admin@1move.local", "Admin123!")
	registerApplicant(t, s, "ann@example.com")
	approveFirstPending(t, s, adminToken)

	w := doJSON(t, s, http.MethodGet, "/admin/pending-requests", adminToken, nil)
	var pending []pendingRow
	decode(t, w, &pending)
	assert.Empty(t, pending)

	w = doJSON(t, s, http.MethodGet, "/admin/affiliates", adminToken, nil)
	var affiliates []affiliateRow
	decode(t, w, &affiliates)
	require.Len(t, affiliates, 1)
	assert.Equal(t, "ann@example.com", affiliates[0].Email)
	assert.NotEmpty(t, affiliates[0].UniqueLink)
	assert.Equal(t, "https://onemove.example.com/ref/ann", affiliates[0].OnemoveLink)

	// The approved applicant can now log in with the password from the
	// application.
	loginToken(t, s, "ann@example.com", "Passw0rd!")
}

func TestReviewRejectDeletesRequest(t *testing.T) {
	s := newTestServer(t)
	adminToken := loginToken(t, s, "admin@1move.local", "Admin123!")
	registerApplicant(t, s, "ann@example.com")

	w := doJSON(t, s, http.MethodGet, "/admin/pending-requests", adminToken, nil)
	var pending []pendingRow
	decode(t, w, &pending)
	require.Len(t, pending, 1)

	w = doJSON(t, s, http.MethodPost, "/admin/review-request", adminToken, map[string]any{
		"request_id": pending[0].ID, "approve": false, "reason": "incomplete links",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodGet, "/admin/pending-requests", adminToken, nil)
	decode(t, w, &pending)
	assert.Empty(t, pending)

	w = doJSON(t, s, http.MethodGet, "/admin/affiliates", adminToken, nil)
	var affiliates []affiliateRow
	decode(t, w, &affiliates)
	assert.Empty(t, affiliates)
}

func TestReviewUnknownRequestIs404(t *testing.T) {
	s := newTestServer(t)
	adminToken := loginToken(t, s, "admin@1move.local", "Admin123!")
	w := doJSON(t, s, http.MethodPost, "/admin/review-request", adminToken, map[string]any{
		"request_id": 999, "approve": true,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAffiliateProfileAndStatus(t *testing.T) {
	s := newTestServer(t)
	adminToken := loginToken(t, s, "admin@1move.local", "Admin123!")
	registerApplicant(t, s, "ann@example.com")
	approveFirstPending(t, s, adminToken)
	affToken := loginToken(t, s, "ann@example.com", "Passw0rd!")

	w := doJSON(t, s, http.MethodGet, "/affiliate/profile", affToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile affiliateRow
	decode(t, w, &profile)
	assert.Equal(t, "Ann Example", profile.Name)
	assert.Equal(t, "Lisbon", profile.Location)

	w = doJSON(t, s, http.MethodGet, "/affiliate/referrals", affToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var referrals []referralRow
	decode(t, w, &referrals)
	assert.Empty(t, referrals)

	w = doJSON(t, s, http.MethodGet, "/affiliate/status", affToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status map[string]any
	decode(t, w, &status)
	assert.Equal(t, "active", status["status"])
	assert.Equal(t, float64(0), status["total_referrals"])
	assert.Equal(t, float64(10), status["commission_rate"])
}

func TestDeleteProfileRevokesToken(t *testing.T) {
	s := newTestServer(t)
	adminToken := loginToken(t, s, "admin@1move.local", "Admin123!")
	registerApplicant(t, s, "ann@example.com")
	approveFirstPending(t, s, adminToken)
	affToken := loginToken(t, s, "ann@example.com", "Passw0rd!")

	w := doJSON(t, s, http.MethodDelete, "/affiliate/profile", affToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Token no longer resolves, and the affiliate is gone from the list.
	w = doJSON(t, s, http.MethodGet, "/affiliate/profile", affToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, s, http.MethodGet, "/admin/affiliates", adminToken, nil)
	var affiliates []affiliateRow
	decode(t, w, &affiliates)
	assert.Empty(t, affiliates)

	w = doJSON(t, s, http.MethodPost, "/login", "", map[string]string{
		"email": "ann@example.com", "password": "Passw0rd!",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// End-to-end shape of the session flow: login, store the prefixed token,
// re-prefix it on the wire, fetch an admin list.
func TestLoginThenDashboardFetch(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/login", "", map[string]string{
		"email": "admin@1move.local", "password": "Admin123!",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	decode(t, w, &resp)
	stored := resp["access_token"] // already "Bearer <raw>"

	req := httptest.NewRequest(http.MethodGet, "/admin/pending-requests", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", stored))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
