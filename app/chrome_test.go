package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialOf(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"ann@example.com", "A"},
		{"Zed@example.com", "Z"},
		{"ünal@example.com", "Ü"},
		{"желя@example.com", "Ж"},
		{"", "?"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, initialOf(tt.email))
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"admin", "Admin"},
		{"affiliate", "Affiliate"},
		{"éclair", "Éclair"},
		{"A", "A"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, capitalize(tt.in))
	}
}
