package impl

import (
	"context"
	"log/slog"
	"strconv"
	"time"

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

type ratingService struct {
	serviceRatingRepo repository.ServiceRatingRepository
	usuarioRatingRepo repository.UsuarioRatingRepository
	aggregateRepo     repository.RatingAggregateRepository
	accountRepo       repository.AccountRepository
	publisher         service.EventPublisher
	logger            *slog.Logger
	now               func() time.Time
}

// RatingServiceParams holds dependencies for RatingService, injected by Fx.
type RatingServiceParams struct {
	fx.In

	ServiceRatingRepo repository.ServiceRatingRepository
	UsuarioRatingRepo repository.UsuarioRatingRepository
	AggregateRepo     repository.RatingAggregateRepository
	AccountRepo       repository.AccountRepository
	Publisher         service.EventPublisher
	Logger            *slog.Logger
}

// NewRatingService is the constructor for ratingService.
func NewRatingService(params RatingServiceParams) usecase.RatingUsecase {
	return &ratingService{
		serviceRatingRepo: params.ServiceRatingRepo,
		usuarioRatingRepo: params.UsuarioRatingRepo,
		aggregateRepo:     params.AggregateRepo,
		accountRepo:       params.AccountRepo,
		publisher:         params.Publisher,
		logger:            params.Logger,
		now:               time.Now,
	}
}

func (srv *ratingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// --- Service ratings ---

func (srv *ratingService) CreateServiceRating(ctx context.Context, rating *entity.ServiceRating) (*entity.ServiceRating, error) {
	if err := validateServiceRatingKey(rating.ServiceRatingKey); err != nil {
		return nil, err
	}
	if !entity.ValidScore(rating.Score) {
		return nil, domainerrors.ErrScoreOutOfRange
	}

	if err := srv.serviceRatingRepo.Create(ctx, rating); err != nil {
		return nil, errors.Wrap(err, "failed to create service rating")
	}

	return rating, nil
}

func (srv *ratingService) GetServiceRating(ctx context.Context, key entity.ServiceRatingKey) (*entity.ServiceRating, error) {
	rating, err := srv.serviceRatingRepo.Find(ctx, key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get service rating")
	}

	return rating, nil
}

func (srv *ratingService) ListServiceRatings(ctx context.Context) ([]*entity.ServiceRating, error) {
	ratings, err := srv.serviceRatingRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list service ratings")
	}

	return ratings, nil
}

func (srv *ratingService) UpdateServiceRating(ctx context.Context, key entity.ServiceRatingKey, score int) (*entity.ServiceRating, error) {
	if !entity.ValidScore(score) {
		return nil, domainerrors.ErrScoreOutOfRange
	}

	rating, err := srv.serviceRatingRepo.UpdateScore(ctx, key, score)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update service rating")
	}

	return rating, nil
}

func (srv *ratingService) DeleteServiceRating(ctx context.Context, key entity.ServiceRatingKey) error {
	return errors.Wrap(srv.serviceRatingRepo.Delete(ctx, key), "failed to delete service rating")
}

// --- Usuario ratings ---

func (srv *ratingService) CreateUsuarioRating(ctx context.Context, rating *entity.UsuarioRating) (*entity.UsuarioRating, error) {
	if err := validateUsuarioRatingKey(rating.UsuarioRatingKey); err != nil {
		return nil, err
	}
	if rating.ContractID <= 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("missing fields: contract_id")
	}
	if !entity.ValidScore(rating.Score) {
		return nil, domainerrors.ErrScoreOutOfRange
	}

	if err := srv.usuarioRatingRepo.Create(ctx, rating); err != nil {
		return nil, errors.Wrap(err, "failed to create usuario rating")
	}

	return rating, nil
}

func (srv *ratingService) GetUsuarioRating(ctx context.Context, key entity.UsuarioRatingKey) (*entity.UsuarioRating, error) {
	rating, err := srv.usuarioRatingRepo.Find(ctx, key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get usuario rating")
	}

	return rating, nil
}

func (srv *ratingService) ListUsuarioRatings(ctx context.Context) ([]*entity.UsuarioRating, error) {
	ratings, err := srv.usuarioRatingRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list usuario ratings")
	}

	return ratings, nil
}

func (srv *ratingService) ListRatingsForUsuario(ctx context.Context, usuarioID uuid.UUID) ([]*entity.UsuarioRating, error) {
	if usuarioID == uuid.Nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("missing fields: usuario_id")
	}

	ratings, err := srv.usuarioRatingRepo.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list ratings for usuario")
	}

	return ratings, nil
}

func (srv *ratingService) UpdateUsuarioRating(ctx context.Context, key entity.UsuarioRatingKey, score int) (*entity.UsuarioRating, error) {
	if !entity.ValidScore(score) {
		return nil, domainerrors.ErrScoreOutOfRange
	}

	rating, err := srv.usuarioRatingRepo.UpdateScore(ctx, key, score)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update usuario rating")
	}

	return rating, nil
}

func (srv *ratingService) DeleteUsuarioRating(ctx context.Context, key entity.UsuarioRatingKey) error {
	return errors.Wrap(srv.usuarioRatingRepo.Delete(ctx, key), "failed to delete usuario rating")
}

// --- Aggregates ---

// AverageFor returns nil, not zero, when the target has no ratings.
func (srv *ratingService) AverageFor(ctx context.Context, target entity.RatingTarget) (*float64, error) {
	if err := validateTarget(target); err != nil {
		return nil, err
	}

	avg, err := srv.aggregateRepo.Average(ctx, target)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to compute average for %s", target)
	}

	return avg, nil
}

// Recompute reads the mean and writes it back rounded, as two separate statements.
// A rating written between the two can be overwritten by a stale value until the next recompute.
func (srv *ratingService) Recompute(ctx context.Context, target entity.RatingTarget) (*usecase.RecomputeOutput, error) {
	avg, err := srv.AverageFor(ctx, target)
	if err != nil {
		return nil, err
	}

	rounded := entity.RoundAverage(avg)

	found, err := srv.aggregateRepo.SetRatingAvg(ctx, target, rounded)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store rating_avg for %s", target)
	}
	if !found {
		srv.log(ctx).Debug("Recompute target not found", slog.String("target", target.String()))

		return nil, nil
	}

	output := &usecase.RecomputeOutput{
		Target:    target,
		Average:   avg,
		RatingAvg: rounded,
	}

	switch target.Kind {
	case entity.RatingTargetService:
		output.Service, err = srv.aggregateRepo.FindService(ctx, target.ServiceID)
	case entity.RatingTargetIner:
		output.Account, err = srv.accountRepo.FindByID(ctx, entity.AccountKindIner, target.AccountID)
	case entity.RatingTargetUsuario:
		output.Account, err = srv.accountRepo.FindByID(ctx, entity.AccountKindUsuario, target.AccountID)
	}
	if err != nil {
		// Deleted between the write and the reload.
		if errors.Is(err, domainerrors.ErrAccountNotFound) || errors.Is(err, domainerrors.ErrRatingTargetNotFound) {
			return nil, nil
		}

		return nil, errors.Wrapf(err, "failed to reload %s", target)
	}

	srv.log(ctx).Info("Rating average recomputed",
		slog.String("target", target.String()),
		slog.Any("rating_avg", rounded),
	)

	srv.publish(ctx, output)

	return output, nil
}

// publish is best effort: a broker failure never fails the recompute.
func (srv *ratingService) publish(ctx context.Context, output *usecase.RecomputeOutput) {
	if srv.publisher == nil {
		return
	}

	targetID := output.Target.AccountID.String()
	parentID := ""
	if output.Target.Kind == entity.RatingTargetService {
		targetID = strconv.FormatInt(output.Target.ServiceID, 10)
		if output.Service != nil && output.Service.InerID != uuid.Nil {
			parentID = output.Service.InerID.String()
		}
	}

	event := &service.RatingAggregateEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		TargetKind: string(output.Target.Kind),
		TargetID:   targetID,
		ParentID:   parentID,
		Average:    output.Average,
		RatingAvg:  output.RatingAvg,
		OccurredAt: srv.now().UTC(),
	}

	if err := srv.publisher.PublishRatingEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish rating event",
			slog.String("target", output.Target.String()),
			slog.Any("error", err),
		)
	}
}

func validateTarget(target entity.RatingTarget) error {
	if !target.Valid() {
		return domainerrors.ErrUnknownRatingTarget
	}
	if target.Kind == entity.RatingTargetService && target.ServiceID <= 0 {
		return domainerrors.ErrValidationFailed.WithDetails("invalid service id")
	}
	if target.Kind != entity.RatingTargetService && target.AccountID == uuid.Nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid account id")
	}

	return nil
}

func validateServiceRatingKey(key entity.ServiceRatingKey) error {
	switch {
	case key.ServiceID <= 0:
		return domainerrors.ErrValidationFailed.WithDetails("missing fields: service_id")
	case key.UsuarioID == uuid.Nil:
		return domainerrors.ErrValidationFailed.WithDetails("missing fields: usuario_id")
	case key.ContractID <= 0:
		return domainerrors.ErrValidationFailed.WithDetails("missing fields: contract_id")
	default:
		return nil
	}
}

func validateUsuarioRatingKey(key entity.UsuarioRatingKey) error {
	switch {
	case key.InerID == uuid.Nil:
		return domainerrors.ErrValidationFailed.WithDetails("missing fields: iner_id")
	case key.UsuarioID == uuid.Nil:
		return domainerrors.ErrValidationFailed.WithDetails("missing fields: usuario_id")
	default:
		return nil
	}
}
