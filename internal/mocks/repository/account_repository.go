// Package repository provides testify mocks of the domain repository interfaces.
package repository

import (
	"context"

	"iner/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type cleanupT interface {
	mock.TestingT
	Cleanup(func())
}

// MockAccountRepository is a mock of repository.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

// NewMockAccountRepository creates the mock and asserts its expectations when the test ends.
func NewMockAccountRepository(t cleanupT) *MockAccountRepository {
	m := &MockAccountRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entity.Account) error {
	args := m.Called(ctx, account)

	return args.Error(0)
}

func (m *MockAccountRepository) FindByID(ctx context.Context, kind entity.AccountKind, id uuid.UUID) (*entity.Account, error) {
	args := m.Called(ctx, kind, id)

	return accountArg(args, 0), args.Error(1)
}

func (m *MockAccountRepository) FindByEmail(ctx context.Context, kind entity.AccountKind, email string) (*entity.Account, error) {
	args := m.Called(ctx, kind, email)

	return accountArg(args, 0), args.Error(1)
}

func (m *MockAccountRepository) FindByNationalID(ctx context.Context, kind entity.AccountKind, nationalID string) (*entity.Account, error) {
	args := m.Called(ctx, kind, nationalID)

	return accountArg(args, 0), args.Error(1)
}

func (m *MockAccountRepository) List(ctx context.Context, kind entity.AccountKind) ([]*entity.Account, error) {
	args := m.Called(ctx, kind)

	accounts, _ := args.Get(0).([]*entity.Account)

	return accounts, args.Error(1)
}

func (m *MockAccountRepository) Update(ctx context.Context, kind entity.AccountKind, id uuid.UUID, update *entity.AccountUpdate) (*entity.Account, error) {
	args := m.Called(ctx, kind, id, update)

	return accountArg(args, 0), args.Error(1)
}

func (m *MockAccountRepository) Delete(ctx context.Context, kind entity.AccountKind, id uuid.UUID) error {
	args := m.Called(ctx, kind, id)

	return args.Error(0)
}

func accountArg(args mock.Arguments, index int) *entity.Account {
	account, _ := args.Get(index).(*entity.Account)

	return account
}
