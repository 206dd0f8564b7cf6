package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "iner/internal/delivery/context"
	"iner/internal/domain/entity"
	domainerrors "iner/internal/domain/errors"
	"iner/internal/domain/repository"
	"iner/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type accountService struct {
	accountRepo repository.AccountRepository
	logger      *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	AccountRepo repository.AccountRepository
	Logger      *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		accountRepo: params.AccountRepo,
		logger:      params.Logger,
	}
}

func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *accountService) GetAccount(ctx context.Context, kind entity.AccountKind, id uuid.UUID) (*entity.Account, error) {
	if !kind.Valid() {
		return nil, domainerrors.ErrUnknownAccountKind
	}

	account, err := srv.accountRepo.FindByID(ctx, kind, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}

	return account, nil
}

func (srv *accountService) GetAccountByNationalID(ctx context.Context, kind entity.AccountKind, nationalID string) (*entity.Account, error) {
	if !kind.Valid() {
		return nil, domainerrors.ErrUnknownAccountKind
	}
	nationalID = strings.TrimSpace(nationalID)
	if nationalID == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("missing fields: national_id")
	}

	account, err := srv.accountRepo.FindByNationalID(ctx, kind, nationalID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account by national id")
	}

	return account, nil
}

func (srv *accountService) ListAccounts(ctx context.Context, kind entity.AccountKind) ([]*entity.Account, error) {
	if !kind.Valid() {
		return nil, domainerrors.ErrUnknownAccountKind
	}

	accounts, err := srv.accountRepo.List(ctx, kind)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list accounts")
	}

	return accounts, nil
}

// DeleteAccount is a hard delete.
func (srv *accountService) DeleteAccount(ctx context.Context, kind entity.AccountKind, id uuid.UUID) error {
	if !kind.Valid() {
		return domainerrors.ErrUnknownAccountKind
	}

	if err := srv.accountRepo.Delete(ctx, kind, id); err != nil {
		return errors.Wrap(err, "failed to delete account")
	}

	srv.log(ctx).Info("Account deleted", slog.String("kind", kind.String()), slog.String("account_id", id.String()))

	return nil
}
