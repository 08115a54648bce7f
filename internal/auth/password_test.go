package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAdminPassword_Plain(t *testing.T) {
	ap := NewAdminPassword("secret", "")
	assert.NoError(t, ap.Check("secret"))
	assert.ErrorIs(t, ap.Check("Secret"), ErrInvalidPassword)
	assert.ErrorIs(t, ap.Check(""), ErrInvalidPassword)
}

func TestAdminPassword_Hash(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	ap := NewAdminPassword("ignored-when-hash-set", hash)
	assert.NoError(t, ap.Check("s3cret"))
	assert.ErrorIs(t, ap.Check("ignored-when-hash-set"), ErrInvalidPassword)
}

func TestAdminPassword_NotConfigured(t *testing.T) {
	assert.ErrorIs(t, NewAdminPassword("", "").Check("anything"), ErrAdminPasswordNotConfigured)
}
