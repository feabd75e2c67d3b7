package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AdminTokenPayload captures the data available when minting an admin JWT.
type AdminTokenPayload struct {
	AdminID   int64
	Username  string
	Superuser bool
	JTI       string
}

// AdminClaims is the typed JWT issued at admin login. Subject carries the username.
type AdminClaims struct {
	AdminID   int64 `json:"admin_id"`
	Superuser bool  `json:"is_superuser,omitempty"`
	jwt.RegisteredClaims
}
