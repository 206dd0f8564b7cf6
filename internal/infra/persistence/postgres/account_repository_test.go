package postgres

import (
	"context"
	"testing"

	"iner/internal/domain/entity"
	domainerrors "iner/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(kind entity.AccountKind, email, rut string) *entity.Account {
	return &entity.Account{
		Kind:         kind,
		NationalID:   rut,
		Name:         "Test Account",
		Email:        email,
		PasswordHash: "$2a$10$hashhashhashhashhashhu",
		CountryID:    1,
		RegionID:     13,
		CommuneID:    101,
	}
}

func TestAccountRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(newTestDB(t))

	account := newTestAccount(entity.AccountKindUsuario, "u@test.com", "11111111-1")
	require.NoError(t, repo.Create(ctx, account))
	assert.NotEqual(t, uuid.Nil, account.ID)
	assert.False(t, account.CreatedAt.IsZero())

	byID, err := repo.FindByID(ctx, entity.AccountKindUsuario, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "u@test.com", byID.Email)
	assert.Equal(t, entity.AccountKindUsuario, byID.Kind)
	assert.Nil(t, byID.RatingAvg)

	byEmail, err := repo.FindByEmail(ctx, entity.AccountKindUsuario, "u@test.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byEmail.ID)
	assert.Equal(t, account.PasswordHash, byEmail.PasswordHash)

	byRUT, err := repo.FindByNationalID(ctx, entity.AccountKindUsuario, "11111111-1")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byRUT.ID)
}

func TestAccountRepository_KindsAreSeparateTables(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(newTestDB(t))

	description := "Gasfitería"
	iner := newTestAccount(entity.AccountKindIner, "shared@test.com", "22222222-2")
	iner.ProfileDescription = &description
	require.NoError(t, repo.Create(ctx, iner))

	_, err := repo.FindByEmail(ctx, entity.AccountKindUsuario, "shared@test.com")
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)

	// The same email may exist once per kind.
	require.NoError(t, repo.Create(ctx, newTestAccount(entity.AccountKindUsuario, "shared@test.com", "22222222-2")))

	found, err := repo.FindByEmail(ctx, entity.AccountKindIner, "shared@test.com")
	require.NoError(t, err)
	assert.Equal(t, entity.AccountKindIner, found.Kind)
	require.NotNil(t, found.ProfileDescription)
	assert.Equal(t, description, *found.ProfileDescription)
}

func TestAccountRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, newTestAccount(entity.AccountKindUsuario, "dup@test.com", "11111111-1")))

	err := repo.Create(ctx, newTestAccount(entity.AccountKindUsuario, "dup@test.com", "33333333-3"))
	assert.ErrorIs(t, err, domainerrors.ErrAccountAlreadyExists)

	err = repo.Create(ctx, newTestAccount(entity.AccountKindUsuario, "other@test.com", "11111111-1"))
	assert.ErrorIs(t, err, domainerrors.ErrAccountAlreadyExists)
}

func TestAccountRepository_FindMissing(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), entity.AccountKindIner, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}

func TestAccountRepository_UnknownKind(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), entity.AccountKind("admin"), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrUnknownAccountKind)
}

func TestAccountRepository_UpdateKeepsHashWhenNotSupplied(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(newTestDB(t))

	account := newTestAccount(entity.AccountKindUsuario, "u@test.com", "11111111-1")
	require.NoError(t, repo.Create(ctx, account))

	phone := "+56911111111"
	updated, err := repo.Update(ctx, entity.AccountKindUsuario, account.ID, &entity.AccountUpdate{
		NationalID: account.NationalID,
		Name:       "Renamed",
		Email:      account.Email,
		Phone:      &phone,
		CountryID:  1,
		RegionID:   5,
		CommuneID:  7,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, int64(5), updated.RegionID)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)
	assert.Equal(t, account.PasswordHash, updated.PasswordHash)
}

func TestAccountRepository_UpdateReplacesHash(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(newTestDB(t))

	account := newTestAccount(entity.AccountKindIner, "i@test.com", "11111111-1")
	require.NoError(t, repo.Create(ctx, account))

	newHash := "$2a$10$otherhashotherhashother"
	address := "Av. Siempre Viva 123"
	updated, err := repo.Update(ctx, entity.AccountKindIner, account.ID, &entity.AccountUpdate{
		NationalID:   account.NationalID,
		Name:         account.Name,
		Email:        account.Email,
		PasswordHash: &newHash,
		CountryID:    1,
		RegionID:     13,
		CommuneID:    101,
		Address:      &address,
	})
	require.NoError(t, err)
	assert.Equal(t, newHash, updated.PasswordHash)
	require.NotNil(t, updated.Address)
	assert.Equal(t, address, *updated.Address)
}

func TestAccountRepository_UpdateMissing(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t))

	_, err := repo.Update(context.Background(), entity.AccountKindUsuario, uuid.New(), &entity.AccountUpdate{
		NationalID: "11111111-1",
		Name:       "Nobody",
		Email:      "nobody@test.com",
	})
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}

func TestAccountRepository_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(newTestDB(t))

	first := newTestAccount(entity.AccountKindUsuario, "a@test.com", "11111111-1")
	second := newTestAccount(entity.AccountKindUsuario, "b@test.com", "22222222-2")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	accounts, err := repo.List(ctx, entity.AccountKindUsuario)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	iners, err := repo.List(ctx, entity.AccountKindIner)
	require.NoError(t, err)
	assert.Empty(t, iners)

	require.NoError(t, repo.Delete(ctx, entity.AccountKindUsuario, first.ID))
	assert.ErrorIs(t, repo.Delete(ctx, entity.AccountKindUsuario, first.ID), domainerrors.ErrAccountNotFound)

	accounts, err = repo.List(ctx, entity.AccountKindUsuario)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, second.ID, accounts[0].ID)
}
