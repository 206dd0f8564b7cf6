package service

import (
	"time"

	"iner/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the session token claims. The subject repeats the account ID.
type Claims struct {
	AccountID uuid.UUID          `json:"account_id"`
	Email     string             `json:"email"`
	Kind      entity.AccountKind `json:"kind"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless session tokens.
type TokenService interface {
	// GenerateToken signs a token for the account, valid for TokenDuration from now.
	GenerateToken(account *entity.Account) (token string, expiresAt time.Time, err error)

	// ValidateToken checks signature, algorithm and expiry.
	ValidateToken(tokenString string) (*Claims, error)

	TokenDuration() time.Duration
}
