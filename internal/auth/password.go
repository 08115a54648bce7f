package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrAdminPasswordNotConfigured means neither a password nor a hash is set.
	ErrAdminPasswordNotConfigured = errors.New("admin password not configured")
	// ErrInvalidPassword means the supplied password did not match.
	ErrInvalidPassword = errors.New("invalid password")
)

// AdminPassword verifies the shared admin secret, given either in plain text
// or as a bcrypt hash. The hash wins when both are set.
type AdminPassword struct {
	plain string
	hash  []byte
}

// NewAdminPassword builds a verifier.
func NewAdminPassword(plain, hash string) *AdminPassword {
	ap := &AdminPassword{plain: plain}
	if hash != "" {
		ap.hash = []byte(hash)
	}
	return ap
}

// Check compares candidate against the configured secret.
func (a *AdminPassword) Check(candidate string) error {
	switch {
	case a.hash != nil:
		if err := bcrypt.CompareHashAndPassword(a.hash, []byte(candidate)); err != nil {
			return ErrInvalidPassword
		}
		return nil
	case a.plain != "":
		if subtle.ConstantTimeCompare([]byte(a.plain), []byte(candidate)) != 1 {
			return ErrInvalidPassword
		}
		return nil
	}
	return ErrAdminPasswordNotConfigured
}

// HashPassword hashes a plaintext password with the given cost, for
// producing ADMIN_PASSWORD_HASH values.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
