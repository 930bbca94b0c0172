package devapi

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
)

const (
	roleAdmin     = "admin"
	roleAffiliate = "affiliate"
)

type account struct {
	ID    int64
	Email string
	Role  string
}

// parseAuthHeader extracts the raw token from an Authorization header.
// The portal client stores its token pre-prefixed and prepends "Bearer "
// once more on every call, so the only accepted shape on the wire is
// "Bearer Bearer <raw>".
func parseAuthHeader(header string) (string, error) {
	const prefix = "Bearer Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", errors.New("malformed authorization header")
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if raw == "" {
		return "", errors.New("empty token")
	}
	return raw, nil
}

func (s *Server) accountForToken(token string) (*account, error) {
	var acc account
	err := s.db.QueryRow(`
		SELECT a.id, a.email, a.role
		FROM tokens t JOIN accounts a ON a.id = t.account_id
		WHERE t.token = ?`, token).Scan(&acc.ID, &acc.Email, &acc.Role)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// requireRole authenticates the request and checks the account's role.
// Missing or unknown tokens are 401, a known token with the wrong role
// is 403; the client treats the two very differently.
func (s *Server) requireRole(role string, next func(http.ResponseWriter, *http.Request, *account)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := parseAuthHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		acc, err := s.accountForToken(token)
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if acc.Role != role {
			writeError(w, http.StatusForbidden, "Insufficient permissions")
			return
		}
		next(w, r, acc)
	})
}
