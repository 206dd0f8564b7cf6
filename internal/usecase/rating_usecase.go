package usecase

import (
	"context"

	"iner/internal/domain/entity"

	"github.com/google/uuid"
)

// RecomputeOutput is the result of writing a fresh rating_avg. Exactly one of Service or Account is set.
type RecomputeOutput struct {
	Target    entity.RatingTarget
	Average   *float64
	RatingAvg *int
	Service   *entity.Service
	Account   *entity.Account
}

// RatingUsecase manages rating rows and the rating_avg aggregates derived from them.
// Rating writes never recompute aggregates; callers invoke Recompute explicitly.
type RatingUsecase interface {
	CreateServiceRating(ctx context.Context, rating *entity.ServiceRating) (*entity.ServiceRating, error)
	GetServiceRating(ctx context.Context, key entity.ServiceRatingKey) (*entity.ServiceRating, error)
	ListServiceRatings(ctx context.Context) ([]*entity.ServiceRating, error)
	UpdateServiceRating(ctx context.Context, key entity.ServiceRatingKey, score int) (*entity.ServiceRating, error)
	DeleteServiceRating(ctx context.Context, key entity.ServiceRatingKey) error

	CreateUsuarioRating(ctx context.Context, rating *entity.UsuarioRating) (*entity.UsuarioRating, error)
	GetUsuarioRating(ctx context.Context, key entity.UsuarioRatingKey) (*entity.UsuarioRating, error)
	ListUsuarioRatings(ctx context.Context) ([]*entity.UsuarioRating, error)
	ListRatingsForUsuario(ctx context.Context, usuarioID uuid.UUID) ([]*entity.UsuarioRating, error)
	UpdateUsuarioRating(ctx context.Context, key entity.UsuarioRatingKey, score int) (*entity.UsuarioRating, error)
	DeleteUsuarioRating(ctx context.Context, key entity.UsuarioRatingKey) error

	// AverageFor returns the mean score of the target's ratings, or nil when there are none.
	AverageFor(ctx context.Context, target entity.RatingTarget) (*float64, error)

	// Recompute writes the rounded mean into the target's rating_avg (NULL when there are no ratings).
	// It returns nil, nil when the target does not exist.
	Recompute(ctx context.Context, target entity.RatingTarget) (*RecomputeOutput, error)
}
