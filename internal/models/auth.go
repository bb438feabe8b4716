package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Role is the closed set of principals the system recognises. Dispatch on it
// with exhaustive switches, never raw string comparison.
type Role string

const (
	RoleStudent            Role = "student"
	RoleDepartmentOfficial Role = "department_official"
	RoleAdmin              Role = "admin"
)

// Valid reports whether the role is one of the three known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleDepartmentOfficial, RoleAdmin:
		return true
	}
	return false
}

// LoginRequest holds credentials for authenticating any principal.
type LoginRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued token and resolved profile.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int64    `json:"expires_in"`
	User        UserInfo `json:"user"`
}

// UserInfo describes the authenticated principal in responses. It doubles as
// the session marker the client holds for the duration of a browser session.
type UserInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	Department string `json:"department,omitempty"`
	Email      string `json:"email,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	SubjectID  string `json:"subject_id"`
	Role       Role   `json:"role"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	jwt.RegisteredClaims
}
