package repository

import (
	"context"

	"iner/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockServiceRatingRepository is a mock of repository.ServiceRatingRepository.
type MockServiceRatingRepository struct {
	mock.Mock
}

func NewMockServiceRatingRepository(t cleanupT) *MockServiceRatingRepository {
	m := &MockServiceRatingRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockServiceRatingRepository) Create(ctx context.Context, rating *entity.ServiceRating) error {
	return m.Called(ctx, rating).Error(0)
}

func (m *MockServiceRatingRepository) Find(ctx context.Context, key entity.ServiceRatingKey) (*entity.ServiceRating, error) {
	args := m.Called(ctx, key)
	rating, _ := args.Get(0).(*entity.ServiceRating)

	return rating, args.Error(1)
}

func (m *MockServiceRatingRepository) List(ctx context.Context) ([]*entity.ServiceRating, error) {
	args := m.Called(ctx)
	ratings, _ := args.Get(0).([]*entity.ServiceRating)

	return ratings, args.Error(1)
}

func (m *MockServiceRatingRepository) UpdateScore(ctx context.Context, key entity.ServiceRatingKey, score int) (*entity.ServiceRating, error) {
	args := m.Called(ctx, key, score)
	rating, _ := args.Get(0).(*entity.ServiceRating)

	return rating, args.Error(1)
}

func (m *MockServiceRatingRepository) Delete(ctx context.Context, key entity.ServiceRatingKey) error {
	return m.Called(ctx, key).Error(0)
}

// MockUsuarioRatingRepository is a mock of repository.UsuarioRatingRepository.
type MockUsuarioRatingRepository struct {
	mock.Mock
}

func NewMockUsuarioRatingRepository(t cleanupT) *MockUsuarioRatingRepository {
	m := &MockUsuarioRatingRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockUsuarioRatingRepository) Create(ctx context.Context, rating *entity.UsuarioRating) error {
	return m.Called(ctx, rating).Error(0)
}

func (m *MockUsuarioRatingRepository) Find(ctx context.Context, key entity.UsuarioRatingKey) (*entity.UsuarioRating, error) {
	args := m.Called(ctx, key)
	rating, _ := args.Get(0).(*entity.UsuarioRating)

	return rating, args.Error(1)
}

func (m *MockUsuarioRatingRepository) List(ctx context.Context) ([]*entity.UsuarioRating, error) {
	args := m.Called(ctx)
	ratings, _ := args.Get(0).([]*entity.UsuarioRating)

	return ratings, args.Error(1)
}

func (m *MockUsuarioRatingRepository) ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]*entity.UsuarioRating, error) {
	args := m.Called(ctx, usuarioID)
	ratings, _ := args.Get(0).([]*entity.UsuarioRating)

	return ratings, args.Error(1)
}

func (m *MockUsuarioRatingRepository) UpdateScore(ctx context.Context, key entity.UsuarioRatingKey, score int) (*entity.UsuarioRating, error) {
	args := m.Called(ctx, key, score)
	rating, _ := args.Get(0).(*entity.UsuarioRating)

	return rating, args.Error(1)
}

func (m *MockUsuarioRatingRepository) Delete(ctx context.Context, key entity.UsuarioRatingKey) error {
	return m.Called(ctx, key).Error(0)
}

// MockRatingAggregateRepository is a mock of repository.RatingAggregateRepository.
type MockRatingAggregateRepository struct {
	mock.Mock
}

func NewMockRatingAggregateRepository(t cleanupT) *MockRatingAggregateRepository {
	m := &MockRatingAggregateRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRatingAggregateRepository) Average(ctx context.Context, target entity.RatingTarget) (*float64, error) {
	args := m.Called(ctx, target)
	avg, _ := args.Get(0).(*float64)

	return avg, args.Error(1)
}

func (m *MockRatingAggregateRepository) SetRatingAvg(ctx context.Context, target entity.RatingTarget, avg *int) (bool, error) {
	args := m.Called(ctx, target, avg)

	return args.Bool(0), args.Error(1)
}

func (m *MockRatingAggregateRepository) FindService(ctx context.Context, id int64) (*entity.Service, error) {
	args := m.Called(ctx, id)
	svc, _ := args.Get(0).(*entity.Service)

	return svc, args.Error(1)
}
