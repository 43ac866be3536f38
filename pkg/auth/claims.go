package auth

import (
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// Principal is what the identity provider vouches for on each request.
type Principal struct {
	UserID    int64
	Email     string
	FirstName string
	LastName  string
	Role      enums.UserRole
}

// AccessTokenClaims is the JWT body issued by the identity provider.
type AccessTokenClaims struct {
	UserID    int64          `json:"user_id"`
	Email     string         `json:"email"`
	FirstName string         `json:"given_name,omitempty"`
	LastName  string         `json:"family_name,omitempty"`
	Role      enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

func (c AccessTokenClaims) Principal() Principal {
	return Principal{
		UserID:    c.UserID,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Role:      c.Role,
	}
}
