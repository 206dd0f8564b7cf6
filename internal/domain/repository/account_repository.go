// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"iner/internal/domain/entity"

	"github.com/google/uuid"
)

// AccountRepository persists Usuario and Iner accounts. Every method is scoped to one account kind,
// which selects the backing table.
type AccountRepository interface {
	// Create inserts the account and fills in its generated ID and timestamps.
	Create(ctx context.Context, account *entity.Account) error

	// FindByID returns ErrAccountNotFound when no row matches.
	FindByID(ctx context.Context, kind entity.AccountKind, id uuid.UUID) (*entity.Account, error)

	// FindByEmail is the login lookup.
	FindByEmail(ctx context.Context, kind entity.AccountKind, email string) (*entity.Account, error)

	FindByNationalID(ctx context.Context, kind entity.AccountKind, nationalID string) (*entity.Account, error)

	// List returns every account of the kind, newest first.
	List(ctx context.Context, kind entity.AccountKind) ([]*entity.Account, error)

	// Update writes the given columns in a single statement. A nil PasswordHash is left out of the statement.
	Update(ctx context.Context, kind entity.AccountKind, id uuid.UUID, update *entity.AccountUpdate) (*entity.Account, error)

	Delete(ctx context.Context, kind entity.AccountKind, id uuid.UUID) error
}
