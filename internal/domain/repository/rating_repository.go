package repository

import (
	"context"

	"iner/internal/domain/entity"

	"github.com/google/uuid"
)

// ServiceRatingRepository persists ratings Usuarios give to services.
type ServiceRatingRepository interface {
	Create(ctx context.Context, rating *entity.ServiceRating) error
	Find(ctx context.Context, key entity.ServiceRatingKey) (*entity.ServiceRating, error)
	List(ctx context.Context) ([]*entity.ServiceRating, error)
	// UpdateScore rewrites the score in place and returns the stored row.
	UpdateScore(ctx context.Context, key entity.ServiceRatingKey, score int) (*entity.ServiceRating, error)
	Delete(ctx context.Context, key entity.ServiceRatingKey) error
}

// UsuarioRatingRepository persists ratings Iners give to Usuarios.
type UsuarioRatingRepository interface {
	Create(ctx context.Context, rating *entity.UsuarioRating) error
	Find(ctx context.Context, key entity.UsuarioRatingKey) (*entity.UsuarioRating, error)
	List(ctx context.Context) ([]*entity.UsuarioRating, error)
	ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]*entity.UsuarioRating, error)
	UpdateScore(ctx context.Context, key entity.UsuarioRatingKey, score int) (*entity.UsuarioRating, error)
	Delete(ctx context.Context, key entity.UsuarioRatingKey) error
}

// RatingAggregateRepository reads rating means and writes the denormalized rating_avg columns.
type RatingAggregateRepository interface {
	// Average returns the mean score of the target's ratings, or nil when it has none.
	Average(ctx context.Context, target entity.RatingTarget) (*float64, error)

	// SetRatingAvg writes avg (nil stores NULL) into the target's rating_avg.
	// It reports false when the target row does not exist.
	SetRatingAvg(ctx context.Context, target entity.RatingTarget, avg *int) (bool, error)

	// FindService loads the service row written by a service-targeted recompute.
	FindService(ctx context.Context, id int64) (*entity.Service, error)
}
