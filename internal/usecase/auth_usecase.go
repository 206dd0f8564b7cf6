// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"iner/internal/domain/entity"
	"iner/internal/domain/service"

	"github.com/google/uuid"
)

// MinPasswordLength is the shortest plaintext password accepted on register and update.
const MinPasswordLength = 8

// MaxPasswordBytes is bcrypt's input limit, counted in bytes, not characters.
const MaxPasswordBytes = 72

// --- Input DTOs ---

// RegisterAccountInput defines the data required to register a Usuario or an Iner.
type RegisterAccountInput struct {
	Kind       entity.AccountKind
	NationalID string
	Name       string
	Email      string
	Password   string
	Phone      *string
	CountryID  int64
	RegionID   int64
	CommuneID  int64

	// Iner only.
	ProfileDescription *string
	Address            *string
}

// LoginInput defines the data required for an account to log in.
type LoginInput struct {
	Kind     entity.AccountKind
	Email    string
	Password string
}

// UpdateAccountInput replaces the profile of an existing account.
// A nil or empty Password keeps the stored hash.
type UpdateAccountInput struct {
	Kind       entity.AccountKind
	ID         uuid.UUID
	NationalID string
	Name       string
	Email      string
	Password   *string
	Phone      *string
	CountryID  int64
	RegionID   int64
	CommuneID  int64

	ProfileDescription *string
	Address            *string
}

// --- Output DTOs ---

// LoginOutput carries the session token and the full account record, hash included.
// Callers must not expose Account.PasswordHash.
type LoginOutput struct {
	Token     string
	ExpiresAt time.Time
	Account   *entity.Account
}

// AuthUsecase registers accounts, checks credentials and issues and verifies session tokens.
type AuthUsecase interface {
	Register(ctx context.Context, input *RegisterAccountInput) (*entity.Account, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	VerifyToken(ctx context.Context, token string) (*service.Claims, error)
	UpdateAccount(ctx context.Context, input *UpdateAccountInput) (*entity.Account, error)
}
