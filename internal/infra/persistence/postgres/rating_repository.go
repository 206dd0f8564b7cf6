package postgres

import (
	"context"
	"database/sql"

	"iner/internal/domain/entity"
	domainerrors "iner/internal/domain/errors"
	"iner/internal/domain/repository"
	"iner/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type serviceRatingRepository struct {
	db *gorm.DB
}

// NewServiceRatingRepository is the constructor for the 'service_ratings' repository.
func NewServiceRatingRepository(db *gorm.DB) repository.ServiceRatingRepository {
	return &serviceRatingRepository{db: db}
}

func (repo *serviceRatingRepository) Create(ctx context.Context, rating *entity.ServiceRating) error {
	m := &model.ServiceRatingModel{
		ServiceID:  rating.ServiceID,
		UsuarioID:  rating.UsuarioID,
		ContractID: rating.ContractID,
		Score:      rating.Score,
	}
	if err := repo.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateRatingWriteError(err, "failed to create service rating")
	}

	rating.CreatedAt = m.CreatedAt
	rating.UpdatedAt = m.UpdatedAt

	return nil
}

func (repo *serviceRatingRepository) Find(ctx context.Context, key entity.ServiceRatingKey) (*entity.ServiceRating, error) {
	var m model.ServiceRatingModel
	if err := repo.where(ctx, key).Take(&m).Error; err != nil {
		return nil, translateRatingFindError(err)
	}

	return toServiceRatingDomain(&m), nil
}

func (repo *serviceRatingRepository) List(ctx context.Context) ([]*entity.ServiceRating, error) {
	var rows []*model.ServiceRatingModel
	if err := repo.db.WithContext(ctx).
		Order("service_id").Order("usuario_id").Order("contract_id").
		Find(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list service ratings")
	}

	ratings := make([]*entity.ServiceRating, 0, len(rows))
	for _, row := range rows {
		ratings = append(ratings, toServiceRatingDomain(row))
	}

	return ratings, nil
}

func (repo *serviceRatingRepository) UpdateScore(ctx context.Context, key entity.ServiceRatingKey, score int) (*entity.ServiceRating, error) {
	result := repo.where(ctx, key).Model(&model.ServiceRatingModel{}).Update("score", score)
	if result.Error != nil {
		return nil, translateRatingWriteError(result.Error, "failed to update service rating")
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrRatingNotFound
	}

	return repo.Find(ctx, key)
}

func (repo *serviceRatingRepository) Delete(ctx context.Context, key entity.ServiceRatingKey) error {
	result := repo.where(ctx, key).Delete(&model.ServiceRatingModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete service rating")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRatingNotFound
	}

	return nil
}

func (repo *serviceRatingRepository) where(ctx context.Context, key entity.ServiceRatingKey) *gorm.DB {
	return repo.db.WithContext(ctx).Where(
		"service_id = ? AND usuario_id = ? AND contract_id = ?",
		key.ServiceID, key.UsuarioID, key.ContractID,
	)
}

type usuarioRatingRepository struct {
	db *gorm.DB
}

// NewUsuarioRatingRepository is the constructor for the 'usuario_ratings' repository.
func NewUsuarioRatingRepository(db *gorm.DB) repository.UsuarioRatingRepository {
	return &usuarioRatingRepository{db: db}
}

func (repo *usuarioRatingRepository) Create(ctx context.Context, rating *entity.UsuarioRating) error {
	m := &model.UsuarioRatingModel{
		InerID:     rating.InerID,
		UsuarioID:  rating.UsuarioID,
		ContractID: rating.ContractID,
		Score:      rating.Score,
	}
	if err := repo.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateRatingWriteError(err, "failed to create usuario rating")
	}

	rating.CreatedAt = m.CreatedAt
	rating.UpdatedAt = m.UpdatedAt

	return nil
}

func (repo *usuarioRatingRepository) Find(ctx context.Context, key entity.UsuarioRatingKey) (*entity.UsuarioRating, error) {
	var m model.UsuarioRatingModel
	if err := repo.where(ctx, key).Take(&m).Error; err != nil {
		return nil, translateRatingFindError(err)
	}

	return toUsuarioRatingDomain(&m), nil
}

func (repo *usuarioRatingRepository) List(ctx context.Context) ([]*entity.UsuarioRating, error) {
	return repo.list(repo.db.WithContext(ctx))
}

func (repo *usuarioRatingRepository) ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]*entity.UsuarioRating, error) {
	return repo.list(repo.db.WithContext(ctx).Where("usuario_id = ?", usuarioID))
}

func (repo *usuarioRatingRepository) list(query *gorm.DB) ([]*entity.UsuarioRating, error) {
	var rows []*model.UsuarioRatingModel
	if err := query.Order("iner_id").Order("usuario_id").Find(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list usuario ratings")
	}

	ratings := make([]*entity.UsuarioRating, 0, len(rows))
	for _, row := range rows {
		ratings = append(ratings, toUsuarioRatingDomain(row))
	}

	return ratings, nil
}

func (repo *usuarioRatingRepository) UpdateScore(ctx context.Context, key entity.UsuarioRatingKey, score int) (*entity.UsuarioRating, error) {
	result := repo.where(ctx, key).Model(&model.UsuarioRatingModel{}).Update("score", score)
	if result.Error != nil {
		return nil, translateRatingWriteError(result.Error, "failed to update usuario rating")
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrRatingNotFound
	}

	return repo.Find(ctx, key)
}

func (repo *usuarioRatingRepository) Delete(ctx context.Context, key entity.UsuarioRatingKey) error {
	result := repo.where(ctx, key).Delete(&model.UsuarioRatingModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete usuario rating")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRatingNotFound
	}

	return nil
}

func (repo *usuarioRatingRepository) where(ctx context.Context, key entity.UsuarioRatingKey) *gorm.DB {
	return repo.db.WithContext(ctx).Where("iner_id = ? AND usuario_id = ?", key.InerID, key.UsuarioID)
}

// ratingAggregateRepository reads rating means and writes rating_avg columns.
type ratingAggregateRepository struct {
	db *gorm.DB
}

// NewRatingAggregateRepository is the constructor for ratingAggregateRepository.
func NewRatingAggregateRepository(db *gorm.DB) repository.RatingAggregateRepository {
	return &ratingAggregateRepository{db: db}
}

// Average runs AVG over the target's rating rows. AVG over no rows is NULL, reported as nil.
func (repo *ratingAggregateRepository) Average(ctx context.Context, target entity.RatingTarget) (*float64, error) {
	var query *gorm.DB

	switch target.Kind {
	case entity.RatingTargetService:
		query = repo.db.WithContext(ctx).
			Model(&model.ServiceRatingModel{}).
			Select("CAST(AVG(service_ratings.score) AS DOUBLE PRECISION)").
			Where("service_ratings.service_id = ?", target.ServiceID)
	case entity.RatingTargetIner:
		query = repo.db.WithContext(ctx).
			Model(&model.ServiceRatingModel{}).
			Select("CAST(AVG(service_ratings.score) AS DOUBLE PRECISION)").
			Joins("JOIN services ON services.id = service_ratings.service_id").
			Where("services.iner_id = ?", target.AccountID)
	case entity.RatingTargetUsuario:
		query = repo.db.WithContext(ctx).
			Model(&model.UsuarioRatingModel{}).
			Select("CAST(AVG(usuario_ratings.score) AS DOUBLE PRECISION)").
			Where("usuario_ratings.usuario_id = ?", target.AccountID)
	default:
		return nil, domainerrors.ErrUnknownRatingTarget
	}

	var avg sql.NullFloat64
	if err := query.Row().Scan(&avg); err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to compute rating average")
	}
	if !avg.Valid {
		return nil, nil
	}

	return &avg.Float64, nil
}

// SetRatingAvg writes the rounded mean. A nil avg stores NULL.
func (repo *ratingAggregateRepository) SetRatingAvg(ctx context.Context, target entity.RatingTarget, avg *int) (bool, error) {
	var query *gorm.DB

	switch target.Kind {
	case entity.RatingTargetService:
		query = repo.db.WithContext(ctx).Model(&model.ServiceModel{}).Where("id = ?", target.ServiceID)
	case entity.RatingTargetIner:
		query = repo.db.WithContext(ctx).Model(&model.InerModel{}).Where("id = ?", target.AccountID)
	case entity.RatingTargetUsuario:
		query = repo.db.WithContext(ctx).Model(&model.UsuarioModel{}).Where("id = ?", target.AccountID)
	default:
		return false, domainerrors.ErrUnknownRatingTarget
	}

	result := query.Update("rating_avg", avg)
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to update rating_avg")
	}

	return result.RowsAffected > 0, nil
}

func (repo *ratingAggregateRepository) FindService(ctx context.Context, id int64) (*entity.Service, error) {
	var m model.ServiceModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrRatingTargetNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find service")
	}

	return &entity.Service{
		ID:        m.ID,
		InerID:    m.InerID,
		Title:     m.Title,
		RatingAvg: m.RatingAvg,
	}, nil
}

func translateRatingFindError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainerrors.ErrRatingNotFound
	}

	return domainerrors.NewDatabaseExecuteError(err, "failed to find rating")
}

func translateRatingWriteError(err error, details string) error {
	switch {
	case isUniqueConstraintViolation(err):
		return domainerrors.ErrRatingAlreadyExists.WrapMessage(details)
	case isForeignKeyConstraintViolation(err):
		return domainerrors.ErrRatingReferenceInvalid.WrapMessage(details)
	case isCheckConstraintViolation(err):
		return domainerrors.ErrScoreOutOfRange.WrapMessage(details)
	case isNotNullConstraintViolation(err), isValueTooLong(err):
		return domainerrors.ErrValidationFailed.WrapMessage(details)
	default:
		return domainerrors.NewDatabaseExecuteError(err, details)
	}
}

func toServiceRatingDomain(m *model.ServiceRatingModel) *entity.ServiceRating {
	return &entity.ServiceRating{
		ServiceRatingKey: entity.ServiceRatingKey{
			ServiceID:  m.ServiceID,
			UsuarioID:  m.UsuarioID,
			ContractID: m.ContractID,
		},
		Score:     m.Score,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toUsuarioRatingDomain(m *model.UsuarioRatingModel) *entity.UsuarioRating {
	return &entity.UsuarioRating{
		UsuarioRatingKey: entity.UsuarioRatingKey{
			InerID:    m.InerID,
			UsuarioID: m.UsuarioID,
		},
		ContractID: m.ContractID,
		Score:      m.Score,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
