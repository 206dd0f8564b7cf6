package impl

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"iner/internal/domain/entity"
	domainerrors "iner/internal/domain/errors"
	"iner/internal/domain/service"
	mockRepo "iner/internal/mocks/repository"
	mockSvc "iner/internal/mocks/service"
	"iner/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	repo   *mockRepo.MockAccountRepository
	hasher *mockSvc.MockPasswordHasher
	tokens *mockSvc.MockTokenService
	srv    usecase.AuthUsecase
}

func newAuthFixture(t *testing.T) *authFixture {
	f := &authFixture{
		repo:   mockRepo.NewMockAccountRepository(t),
		hasher: mockSvc.NewMockPasswordHasher(t),
		tokens: mockSvc.NewMockTokenService(t),
	}
	f.srv = NewAuthService(AuthServiceParams{
		AccountRepo:  f.repo,
		Hasher:       f.hasher,
		TokenService: f.tokens,
		Logger:       newDiscardLogger(),
	})

	return f
}

func validRegisterInput(kind entity.AccountKind) *usecase.RegisterAccountInput {
	return &usecase.RegisterAccountInput{
		Kind:       kind,
		NationalID: "12.345.678-9",
		Name:       " Ana ",
		Email:      "ana@example.com",
		Password:   "secret-pass",
		CountryID:  1,
		RegionID:   13,
		CommuneID:  101,
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.hasher.On("Hash", "secret-pass").Return("$2a$10$hashed", nil)
	f.repo.On("Create", ctx, mock.MatchedBy(func(a *entity.Account) bool {
		return a.Kind == entity.AccountKindUsuario &&
			a.PasswordHash == "$2a$10$hashed" &&
			a.Name == "Ana" &&
			a.RatingAvg == nil
	})).Return(nil)

	account, err := f.srv.Register(ctx, validRegisterInput(entity.AccountKindUsuario))

	require.NoError(t, err)
	assert.Equal(t, "$2a$10$hashed", account.PasswordHash)
	assert.NotEqual(t, "secret-pass", account.PasswordHash)
	assert.Nil(t, account.ProfileDescription)
}

func TestAuthService_Register_InerKeepsProfileFields(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	input := validRegisterInput(entity.AccountKindIner)
	input.ProfileDescription = ptr("Gasfiter")
	input.Address = ptr("Av. Siempre Viva 742")

	f.hasher.On("Hash", input.Password).Return("hash", nil)
	f.repo.On("Create", ctx, mock.AnythingOfType("*entity.Account")).Return(nil)

	account, err := f.srv.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, account.ProfileDescription)
	assert.Equal(t, "Gasfiter", *account.ProfileDescription)
	assert.Equal(t, "Av. Siempre Viva 742", *account.Address)
}

func TestAuthService_Register_PasswordOverBcryptLimit(t *testing.T) {
	f := newAuthFixture(t)

	input := validRegisterInput(entity.AccountKindIner)
	// 40 runes, 80 bytes.
	input.Password = strings.Repeat("ñ", 40)

	_, err := f.srv.Register(context.Background(), input)

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode())
	assert.Equal(t, domainerrors.ErrPasswordTooLong.Message(), appErr.Message())
	f.hasher.AssertNotCalled(t, "Hash", mock.Anything)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Register_PasswordAtBcryptLimit(t *testing.T) {
	f := newAuthFixture(t)

	input := validRegisterInput(entity.AccountKindUsuario)
	input.Password = strings.Repeat("ñ", 36)
	f.hasher.On("Hash", input.Password).Return("hash", nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := f.srv.Register(context.Background(), input)

	require.NoError(t, err)
}

func TestAuthService_Register_ShortPasswordPersistsNothing(t *testing.T) {
	f := newAuthFixture(t)

	input := validRegisterInput(entity.AccountKindUsuario)
	input.Password = "short"

	_, err := f.srv.Register(context.Background(), input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordTooShort))
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.hasher.AssertNotCalled(t, "Hash", mock.Anything)
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	f := newAuthFixture(t)

	input := validRegisterInput(entity.AccountKindUsuario)
	input.Email = "  "
	input.CommuneID = 0

	_, err := f.srv.Register(context.Background(), input)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
	assert.Equal(t, "missing fields: email, commune_id", appErr.Details())
}

func TestAuthService_Register_UnknownKind(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.srv.Register(context.Background(), validRegisterInput(entity.AccountKind("admin")))

	assert.True(t, errors.Is(err, domainerrors.ErrUnknownAccountKind))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.hasher.On("Hash", mock.Anything).Return("hash", nil)
	f.repo.On("Create", ctx, mock.Anything).Return(domainerrors.ErrAccountAlreadyExists)

	_, err := f.srv.Register(ctx, validRegisterInput(entity.AccountKindUsuario))

	assert.True(t, errors.Is(err, domainerrors.ErrAccountAlreadyExists))
}

func TestAuthService_Register_HashFailure(t *testing.T) {
	f := newAuthFixture(t)

	f.hasher.On("Hash", mock.Anything).Return("", errors.New("boom"))

	_, err := f.srv.Register(context.Background(), validRegisterInput(entity.AccountKindUsuario))

	assert.True(t, errors.Is(err, domainerrors.ErrPasswordHashFailed))
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	account := &entity.Account{
		ID:           uuid.New(),
		Kind:         entity.AccountKindIner,
		Email:        "iner@example.com",
		PasswordHash: "stored-hash",
	}
	expiresAt := time.Date(2026, 1, 1, 13, 0, 0, 0, time.UTC)

	t.Run("issues token for valid credentials", func(t *testing.T) {
		f := newAuthFixture(t)
		ctx := context.Background()

		f.repo.On("FindByEmail", ctx, entity.AccountKindIner, "iner@example.com").Return(account, nil)
		f.hasher.On("Check", "right-password", "stored-hash").Return(true)
		f.tokens.On("GenerateToken", account).Return("signed.jwt.token", expiresAt, nil)

		out, err := f.srv.Login(ctx, &usecase.LoginInput{
			Kind:     entity.AccountKindIner,
			Email:    " iner@example.com ",
			Password: "right-password",
		})

		require.NoError(t, err)
		assert.Equal(t, "signed.jwt.token", out.Token)
		assert.Equal(t, expiresAt, out.ExpiresAt)
		assert.Equal(t, account.ID, out.Account.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture(t)
		ctx := context.Background()

		f.repo.On("FindByEmail", ctx, entity.AccountKindIner, "iner@example.com").Return(account, nil)
		f.hasher.On("Check", "wrong", "stored-hash").Return(false)

		_, err := f.srv.Login(ctx, &usecase.LoginInput{Kind: entity.AccountKindIner, Email: "iner@example.com", Password: "wrong"})

		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
		f.tokens.AssertNotCalled(t, "GenerateToken", mock.Anything)
	})

	t.Run("unknown email looks like wrong password", func(t *testing.T) {
		f := newAuthFixture(t)
		ctx := context.Background()

		f.repo.On("FindByEmail", ctx, entity.AccountKindIner, "nobody@example.com").Return(nil, domainerrors.ErrAccountNotFound)

		_, err := f.srv.Login(ctx, &usecase.LoginInput{Kind: entity.AccountKindIner, Email: "nobody@example.com", Password: "whatever"})

		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	})

	t.Run("repository failure is not masked", func(t *testing.T) {
		f := newAuthFixture(t)
		ctx := context.Background()

		dbErr := domainerrors.NewDatabaseExecuteError(errors.New("conn reset"), "failed to find account")
		f.repo.On("FindByEmail", ctx, entity.AccountKindIner, "iner@example.com").Return(nil, dbErr)

		_, err := f.srv.Login(ctx, &usecase.LoginInput{Kind: entity.AccountKindIner, Email: "iner@example.com", Password: "x"})

		require.Error(t, err)
		assert.False(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	})

	t.Run("empty credentials", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.srv.Login(context.Background(), &usecase.LoginInput{Kind: entity.AccountKindIner})

		assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	})

	t.Run("token issue failure", func(t *testing.T) {
		f := newAuthFixture(t)
		ctx := context.Background()

		f.repo.On("FindByEmail", ctx, entity.AccountKindIner, "iner@example.com").Return(account, nil)
		f.hasher.On("Check", "right-password", "stored-hash").Return(true)
		f.tokens.On("GenerateToken", account).Return("", time.Time{}, errors.New("sign failed"))

		_, err := f.srv.Login(ctx, &usecase.LoginInput{Kind: entity.AccountKindIner, Email: "iner@example.com", Password: "right-password"})

		assert.True(t, errors.Is(err, domainerrors.ErrTokenIssueFailed))
	})
}

func TestAuthService_VerifyToken(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		f := newAuthFixture(t)
		claims := &service.Claims{AccountID: uuid.New(), Email: "a@b.cl", Kind: entity.AccountKindUsuario}
		f.tokens.On("ValidateToken", "good").Return(claims, nil)

		got, err := f.srv.VerifyToken(context.Background(), "good")

		require.NoError(t, err)
		assert.Equal(t, claims, got)
	})

	t.Run("invalid", func(t *testing.T) {
		f := newAuthFixture(t)
		f.tokens.On("ValidateToken", "bad").Return(nil, errors.New("token is expired"))

		_, err := f.srv.VerifyToken(context.Background(), "bad")

		assert.True(t, errors.Is(err, domainerrors.ErrInvalidOrExpiredToken))
	})

	t.Run("empty", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.srv.VerifyToken(context.Background(), "")

		assert.True(t, errors.Is(err, domainerrors.ErrInvalidOrExpiredToken))
		f.tokens.AssertNotCalled(t, "ValidateToken", mock.Anything)
	})
}

func TestAuthService_UpdateAccount(t *testing.T) {
	id := uuid.New()
	baseInput := func() *usecase.UpdateAccountInput {
		return &usecase.UpdateAccountInput{
			Kind:       entity.AccountKindUsuario,
			ID:         id,
			NationalID: "11.111.111-1",
			Name:       "Ana María",
			Email:      "ana@example.com",
			CountryID:  1,
			RegionID:   13,
			CommuneID:  101,
		}
	}

	t.Run("without password keeps the stored hash", func(t *testing.T) {
		f := newAuthFixture(t)
		ctx := context.Background()
		updated := &entity.Account{ID: id, Kind: entity.AccountKindUsuario, Name: "Ana María"}

		f.repo.On("Update", ctx, entity.AccountKindUsuario, id, mock.MatchedBy(func(u *entity.AccountUpdate) bool {
			return u.PasswordHash == nil && u.Name == "Ana María"
		})).Return(updated, nil)

		account, err := f.srv.UpdateAccount(ctx, baseInput())

		require.NoError(t, err)
		assert.Equal(t, "Ana María", account.Name)
		f.hasher.AssertNotCalled(t, "Hash", mock.Anything)
	})

	t.Run("empty password is treated as absent", func(t *testing.T) {
		f := newAuthFixture(t)
		ctx := context.Background()

		input := baseInput()
		input.Password = ptr("")

		f.repo.On("Update", ctx, entity.AccountKindUsuario, id, mock.MatchedBy(func(u *entity.AccountUpdate) bool {
			return u.PasswordHash == nil
		})).Return(&entity.Account{ID: id}, nil)

		_, err := f.srv.UpdateAccount(ctx, input)

		require.NoError(t, err)
	})

	t.Run("with password re-hashes", func(t *testing.T) {
		f := newAuthFixture(t)
		ctx := context.Background()

		input := baseInput()
		input.Password = ptr("new-password")

		f.hasher.On("Hash", "new-password").Return("new-hash", nil)
		f.repo.On("Update", ctx, entity.AccountKindUsuario, id, mock.MatchedBy(func(u *entity.AccountUpdate) bool {
			return u.PasswordHash != nil && *u.PasswordHash == "new-hash"
		})).Return(&entity.Account{ID: id, PasswordHash: "new-hash"}, nil)

		account, err := f.srv.UpdateAccount(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, "new-hash", account.PasswordHash)
	})

	t.Run("short new password", func(t *testing.T) {
		f := newAuthFixture(t)

		input := baseInput()
		input.Password = ptr("1234567")

		_, err := f.srv.UpdateAccount(context.Background(), input)

		assert.True(t, errors.Is(err, domainerrors.ErrPasswordTooShort))
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing account", func(t *testing.T) {
		f := newAuthFixture(t)
		ctx := context.Background()

		f.repo.On("Update", ctx, entity.AccountKindUsuario, id, mock.Anything).Return(nil, domainerrors.ErrAccountNotFound)

		_, err := f.srv.UpdateAccount(ctx, baseInput())

		assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
	})

	t.Run("usuario ignores iner-only fields", func(t *testing.T) {
		f := newAuthFixture(t)
		ctx := context.Background()

		input := baseInput()
		input.Address = ptr("somewhere")

		f.repo.On("Update", ctx, entity.AccountKindUsuario, id, mock.MatchedBy(func(u *entity.AccountUpdate) bool {
			return u.Address == nil
		})).Return(&entity.Account{ID: id}, nil)

		_, err := f.srv.UpdateAccount(ctx, input)

		require.NoError(t, err)
	})
}
