package types

import "github.com/google/uuid"

// TokenClaims holds the identity carried in a JWT
type TokenClaims struct {
	UserID   uuid.UUID
	Username string
}
