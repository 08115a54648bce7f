package dto

import (
	"time"

	"github.com/spec-kit/staff-directory/internal/domain"
)

// LoginRequest payload for admin login.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginRequestFrom reads the password out of a decoded JSON body. A missing
// or non-string password yields the empty string.
func LoginRequestFrom(raw any) LoginRequest {
	obj, ok := raw.(map[string]any)
	if !ok {
		return LoginRequest{}
	}
	password, _ := obj["password"].(string)
	return LoginRequest{Password: password}
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// StaffListResponse wraps the listing.
type StaffListResponse struct {
	Items []domain.Staff `json:"items"`
}

// StaffResponse wraps a single record.
type StaffResponse struct {
	Staff *domain.Staff `json:"staff"`
}

// CreateStaffResponse is returned with 201 on create.
type CreateStaffResponse struct {
	ID    string        `json:"id"`
	Staff *domain.Staff `json:"staff"`
}

// DeleteResponse acknowledges a delete.
type DeleteResponse struct {
	OK bool `json:"ok"`
}
