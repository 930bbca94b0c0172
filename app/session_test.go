package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memKV mimics app.BrowserStorage: values round-trip through JSON just
// like the browser's local storage wrapper.
type memKV struct {
	data map[string]string
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}}
}

func (m *memKV) Set(k string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[k] = string(b)
	return nil
}

func (m *memKV) Get(k string, v any) error {
	raw, ok := m.data[k]
	if !ok {
		return nil
	}
	return json.Unmarshal([]byte(raw), v)
}

func (m *memKV) Del(k string) {
	delete(m.data, k)
}

func TestNormalizeToken(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"raw token", "abc123", "Bearer abc123"},
		{"already prefixed", "Bearer abc123", "Bearer abc123"},
		{"double prefixed", "Bearer Bearer abc123", "Bearer abc123"},
		{"surrounding whitespace", "  Bearer abc123  ", "Bearer abc123"},
		{"empty", "", ""},
		{"only prefix", "Bearer ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeToken(tt.raw))
		})
	}
}

func TestAuthHeaderDoublesPrefix(t *testing.T) {
	// The backend expects "Bearer Bearer <raw>" on the wire.
	stored := normalizeToken("abc123")
	assert.Equal(t, "Bearer Bearer abc123", authHeader(stored))
}

func TestSessionStoreRoundTrip(t *testing.T) {
	store := newSessionStore(newMemKV())

	store.set("Bearer tok-1", "bearer", "ann@example.com", roleAffiliate)

	sess := store.get()
	require.Equal(t, "Bearer tok-1", sess.Token)
	assert.Equal(t, "bearer", sess.TokenType)
	assert.Equal(t, "ann@example.com", sess.Email)
	assert.Equal(t, roleAffiliate, sess.Role)
	assert.Equal(t, "Bearer tok-1", store.token())
}

func TestSessionStoreKeepsRoleWhenBlank(t *testing.T) {
	store := newSessionStore(newMemKV())

	store.set("tok-1", "bearer", "ann@example.com", roleAdmin)
	store.set("tok-2", "bearer", "ann@example.com", "")

	assert.Equal(t, roleAdmin, store.get().Role)
}

func TestSessionStoreClear(t *testing.T) {
	store := newSessionStore(newMemKV())

	store.set("tok-1", "bearer", "ann@example.com", roleAdmin)
	store.clear()

	sess := store.get()
	assert.Empty(t, sess.Token)
	assert.Empty(t, sess.TokenType)
	assert.Empty(t, sess.Email)
	assert.Empty(t, sess.Role)
}
