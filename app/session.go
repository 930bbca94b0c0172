package main

import "strings"

// Browser storage keys, unchanged from the previous deployment so an
// existing login survives the rollout.
const (
	keyAccessToken = "access_token"
	keyTokenType   = "token_type"
	keyUserEmail   = "user_email"
	keyUserRole    = "user_role"
)

const (
	roleAdmin     = "admin"
	roleAffiliate = "affiliate"
	roleUser      = "user"
)

// kvStorage is the slice of app.BrowserStorage the session store needs.
// Tests substitute a memory implementation.
type kvStorage interface {
	Set(k string, v any) error
	Get(k string, v any) error
	Del(k string)
}

type session struct {
	Token     string
	TokenType string
	Email     string
	Role      string
}

type sessionStore struct {
	kv kvStorage
}

func newSessionStore(kv kvStorage) sessionStore {
	return sessionStore{kv: kv}
}

// normalizeToken makes the stored token carry exactly one "Bearer " prefix.
// The login response sometimes arrives pre-prefixed and sometimes raw.
// Callers then prepend "Bearer " once more when building the Authorization
// header: the backend expects "Bearer Bearer <raw>" on the wire. That is an
// upstream quirk we preserve, not a bug to fix here.
func normalizeToken(raw string) string {
	tok := strings.TrimSpace(raw)
	for strings.HasPrefix(tok, "Bearer ") {
		tok = strings.TrimSpace(strings.TrimPrefix(tok, "Bearer "))
	}
	if tok == "" {
		return ""
	}
	return "Bearer " + tok
}

// authHeader builds the Authorization value from a stored token.
func authHeader(storedToken string) string {
	return "Bearer " + storedToken
}

func (s sessionStore) set(token, tokenType, email, role string) {
	s.kv.Set(keyAccessToken, normalizeToken(token))
	s.kv.Set(keyTokenType, tokenType)
	s.kv.Set(keyUserEmail, email)
	if role != "" {
		s.kv.Set(keyUserRole, role)
	}
}

func (s sessionStore) get() session {
	var sess session
	s.kv.Get(keyAccessToken, &sess.Token)
	s.kv.Get(keyTokenType, &sess.TokenType)
	s.kv.Get(keyUserEmail, &sess.Email)
	s.kv.Get(keyUserRole, &sess.Role)
	return sess
}

func (s sessionStore) token() string {
	var tok string
	s.kv.Get(keyAccessToken, &tok)
	return tok
}

func (s sessionStore) clear() {
	s.kv.Del(keyAccessToken)
	s.kv.Del(keyTokenType)
	s.kv.Del(keyUserEmail)
	s.kv.Del(keyUserRole)
}
