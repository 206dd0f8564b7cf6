// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	deliverycontext "iner/internal/delivery/context"
	"iner/internal/domain/entity"
	domainerrors "iner/internal/domain/errors"
	"iner/internal/domain/repository"
	"iner/internal/domain/service"
	"iner/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	accountRepo  repository.AccountRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	AccountRepo  repository.AccountRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		accountRepo:  params.AccountRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register validates the input, hashes the password and stores the account.
// Nothing is persisted when validation fails.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterAccountInput) (*entity.Account, error) {
	if !input.Kind.Valid() {
		return nil, domainerrors.ErrUnknownAccountKind
	}

	missing := missingIdentityFields(input.NationalID, input.Name, input.Email, input.CountryID, input.RegionID, input.CommuneID)
	if input.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("missing fields: " + strings.Join(missing, ", "))
	}

	if err := checkPasswordLength(input.Password); err != nil {
		return nil, err
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password", slog.String("kind", input.Kind.String()), slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	account := &entity.Account{
		Kind:         input.Kind,
		NationalID:   strings.TrimSpace(input.NationalID),
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: hash,
		Phone:        input.Phone,
		CountryID:    input.CountryID,
		RegionID:     input.RegionID,
		CommuneID:    input.CommuneID,
	}
	if input.Kind == entity.AccountKindIner {
		account.ProfileDescription = input.ProfileDescription
		account.Address = input.Address
	}

	if err := srv.accountRepo.Create(ctx, account); err != nil {
		return nil, errors.Wrap(err, "failed to create account")
	}

	srv.log(ctx).Info("Account registered",
		slog.String("kind", account.Kind.String()),
		slog.String("account_id", account.ID.String()),
	)

	return account, nil
}

// Login checks the password against the stored hash and issues a session token.
// An unknown email and a wrong password produce the same error.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	if !input.Kind.Valid() {
		return nil, domainerrors.ErrUnknownAccountKind
	}
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("email and password are required")
	}

	account, err := srv.accountRepo.FindByEmail(ctx, input.Kind, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, domainerrors.ErrAccountNotFound) {
			srv.log(ctx).Debug("Login rejected", slog.String("kind", input.Kind.String()))

			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to find account by email")
	}

	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Debug("Login rejected", slog.String("kind", input.Kind.String()))

		return nil, domainerrors.ErrInvalidCredentials
	}

	token, expiresAt, err := srv.tokenService.GenerateToken(account)
	if err != nil {
		srv.log(ctx).Error("Failed to issue token", slog.String("account_id", account.ID.String()), slog.Any("error", err))

		return nil, domainerrors.ErrTokenIssueFailed.WrapMessage(err.Error())
	}

	srv.log(ctx).Info("Login succeeded",
		slog.String("kind", account.Kind.String()),
		slog.String("account_id", account.ID.String()),
	)

	return &usecase.LoginOutput{
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   account,
	}, nil
}

// VerifyToken is stateless: it never reads the account row.
func (srv *authService) VerifyToken(ctx context.Context, token string) (*service.Claims, error) {
	if token == "" {
		return nil, domainerrors.ErrInvalidOrExpiredToken
	}

	claims, err := srv.tokenService.ValidateToken(token)
	if err != nil {
		srv.log(ctx).Debug("Token rejected", slog.String("reason", err.Error()))

		return nil, domainerrors.ErrInvalidOrExpiredToken.WrapMessage(err.Error())
	}

	return claims, nil
}

// UpdateAccount replaces the profile. The password is re-hashed only when a non-empty one is supplied.
func (srv *authService) UpdateAccount(ctx context.Context, input *usecase.UpdateAccountInput) (*entity.Account, error) {
	if !input.Kind.Valid() {
		return nil, domainerrors.ErrUnknownAccountKind
	}
	if input.ID == uuid.Nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("missing fields: id")
	}
	if missing := missingIdentityFields(input.NationalID, input.Name, input.Email, input.CountryID, input.RegionID, input.CommuneID); len(missing) > 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("missing fields: " + strings.Join(missing, ", "))
	}

	update := &entity.AccountUpdate{
		NationalID: strings.TrimSpace(input.NationalID),
		Name:       strings.TrimSpace(input.Name),
		Email:      strings.TrimSpace(input.Email),
		Phone:      input.Phone,
		CountryID:  input.CountryID,
		RegionID:   input.RegionID,
		CommuneID:  input.CommuneID,
	}
	if input.Kind == entity.AccountKindIner {
		update.ProfileDescription = input.ProfileDescription
		update.Address = input.Address
	}

	if input.Password != nil && *input.Password != "" {
		if err := checkPasswordLength(*input.Password); err != nil {
			return nil, err
		}

		hash, err := srv.hasher.Hash(*input.Password)
		if err != nil {
			srv.log(ctx).Error("Failed to hash password", slog.String("account_id", input.ID.String()), slog.Any("error", err))

			return nil, domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
		}
		update.PasswordHash = &hash
	}

	account, err := srv.accountRepo.Update(ctx, input.Kind, input.ID, update)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update account")
	}

	srv.log(ctx).Info("Account updated",
		slog.String("kind", input.Kind.String()),
		slog.String("account_id", input.ID.String()),
		slog.Bool("password_changed", update.PasswordHash != nil),
	)

	return account, nil
}

func missingIdentityFields(nationalID, name, email string, countryID, regionID, communeID int64) []string {
	var missing []string
	if strings.TrimSpace(nationalID) == "" {
		missing = append(missing, "national_id")
	}
	if strings.TrimSpace(name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(email) == "" {
		missing = append(missing, "email")
	}
	if countryID <= 0 {
		missing = append(missing, "country_id")
	}
	if regionID <= 0 {
		missing = append(missing, "region_id")
	}
	if communeID <= 0 {
		missing = append(missing, "commune_id")
	}

	return missing
}

func checkPasswordLength(password string) error {
	if utf8.RuneCountInString(password) < usecase.MinPasswordLength {
		return domainerrors.ErrPasswordTooShort
	}
	if len(password) > usecase.MaxPasswordBytes {
		return domainerrors.ErrPasswordTooLong
	}

	return nil
}
