package usecase

import (
	"context"

	"iner/internal/domain/entity"

	"github.com/google/uuid"
)

// AccountUsecase covers account reads and deletion.
type AccountUsecase interface {
	GetAccount(ctx context.Context, kind entity.AccountKind, id uuid.UUID) (*entity.Account, error)
	GetAccountByNationalID(ctx context.Context, kind entity.AccountKind, nationalID string) (*entity.Account, error)
	ListAccounts(ctx context.Context, kind entity.AccountKind) ([]*entity.Account, error)
	DeleteAccount(ctx context.Context, kind entity.AccountKind, id uuid.UUID) error
}
