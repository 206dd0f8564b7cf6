// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"iner/internal/domain/entity"
	domainerrors "iner/internal/domain/errors"
	"iner/internal/domain/repository"
	"iner/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// accountRepository implements repository.AccountRepository on the 'usuarios' and 'iners' tables.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// Create inserts the account row for its kind. The ID is generated here when not set.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	var (
		err     error
		columns *model.AccountColumns
	)

	switch account.Kind {
	case entity.AccountKindUsuario:
		m := &model.UsuarioModel{AccountColumns: fromAccountDomain(account)}
		err = repo.db.WithContext(ctx).Create(m).Error
		columns = &m.AccountColumns
	case entity.AccountKindIner:
		m := &model.InerModel{
			AccountColumns:     fromAccountDomain(account),
			ProfileDescription: account.ProfileDescription,
			Address:            account.Address,
		}
		err = repo.db.WithContext(ctx).Create(m).Error
		columns = &m.AccountColumns
	default:
		return domainerrors.ErrUnknownAccountKind
	}

	if err != nil {
		return translateAccountWriteError(err, "failed to create account")
	}

	account.CreatedAt = columns.CreatedAt
	account.UpdatedAt = columns.UpdatedAt

	return nil
}

func (repo *accountRepository) FindByID(ctx context.Context, kind entity.AccountKind, id uuid.UUID) (*entity.Account, error) {
	return repo.findOne(ctx, kind, "id = ?", id)
}

func (repo *accountRepository) FindByEmail(ctx context.Context, kind entity.AccountKind, email string) (*entity.Account, error) {
	return repo.findOne(ctx, kind, "email = ?", email)
}

func (repo *accountRepository) FindByNationalID(ctx context.Context, kind entity.AccountKind, nationalID string) (*entity.Account, error) {
	return repo.findOne(ctx, kind, "national_id = ?", nationalID)
}

func (repo *accountRepository) findOne(ctx context.Context, kind entity.AccountKind, query string, args ...any) (*entity.Account, error) {
	switch kind {
	case entity.AccountKindUsuario:
		var m model.UsuarioModel
		if err := repo.db.WithContext(ctx).Where(query, args...).Take(&m).Error; err != nil {
			return nil, translateAccountFindError(err)
		}

		return toUsuarioDomain(&m), nil
	case entity.AccountKindIner:
		var m model.InerModel
		if err := repo.db.WithContext(ctx).Where(query, args...).Take(&m).Error; err != nil {
			return nil, translateAccountFindError(err)
		}

		return toInerDomain(&m), nil
	default:
		return nil, domainerrors.ErrUnknownAccountKind
	}
}

// List returns all accounts of the kind, newest first.
func (repo *accountRepository) List(ctx context.Context, kind entity.AccountKind) ([]*entity.Account, error) {
	query := repo.db.WithContext(ctx).Order("created_at DESC")

	switch kind {
	case entity.AccountKindUsuario:
		var rows []*model.UsuarioModel
		if err := query.Find(&rows).Error; err != nil {
			return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list usuarios")
		}

		accounts := make([]*entity.Account, 0, len(rows))
		for _, row := range rows {
			accounts = append(accounts, toUsuarioDomain(row))
		}

		return accounts, nil
	case entity.AccountKindIner:
		var rows []*model.InerModel
		if err := query.Find(&rows).Error; err != nil {
			return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list iners")
		}

		accounts := make([]*entity.Account, 0, len(rows))
		for _, row := range rows {
			accounts = append(accounts, toInerDomain(row))
		}

		return accounts, nil
	default:
		return nil, domainerrors.ErrUnknownAccountKind
	}
}

// Update writes the profile columns in one statement. password_hash is only part of the
// statement when a new hash is supplied; rating_avg is never touched here.
func (repo *accountRepository) Update(ctx context.Context, kind entity.AccountKind, id uuid.UUID, update *entity.AccountUpdate) (*entity.Account, error) {
	target, err := modelFor(kind)
	if err != nil {
		return nil, err
	}

	values := map[string]any{
		"national_id": update.NationalID,
		"name":        update.Name,
		"email":       update.Email,
		"phone":       update.Phone,
		"country_id":  update.CountryID,
		"region_id":   update.RegionID,
		"commune_id":  update.CommuneID,
	}
	if update.PasswordHash != nil {
		values["password_hash"] = *update.PasswordHash
	}
	if kind == entity.AccountKindIner {
		values["profile_description"] = update.ProfileDescription
		values["address"] = update.Address
	}

	result := repo.db.WithContext(ctx).Model(target).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return nil, translateAccountWriteError(result.Error, "failed to update account")
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrAccountNotFound
	}

	return repo.FindByID(ctx, kind, id)
}

// Delete removes the row. Ratings referencing it cascade in the database.
func (repo *accountRepository) Delete(ctx context.Context, kind entity.AccountKind, id uuid.UUID) error {
	target, err := modelFor(kind)
	if err != nil {
		return err
	}

	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(target)
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.ErrConflict.WithDetails("account is still referenced")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete account")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAccountNotFound
	}

	return nil
}

func modelFor(kind entity.AccountKind) (any, error) {
	switch kind {
	case entity.AccountKindUsuario:
		return &model.UsuarioModel{}, nil
	case entity.AccountKindIner:
		return &model.InerModel{}, nil
	default:
		return nil, domainerrors.ErrUnknownAccountKind
	}
}

func translateAccountFindError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainerrors.ErrAccountNotFound
	}

	return domainerrors.NewDatabaseExecuteError(err, "failed to find account")
}

func translateAccountWriteError(err error, details string) error {
	switch {
	case isUniqueConstraintViolation(err):
		return domainerrors.ErrAccountAlreadyExists.WrapMessage("email or national id already registered")
	case isValueTooLong(err):
		return domainerrors.ErrValidationFailed.WithDetails("value too long for column")
	case isNotNullConstraintViolation(err), isCheckConstraintViolation(err):
		return domainerrors.ErrValidationFailed.WrapMessage(details)
	default:
		return domainerrors.NewDatabaseExecuteError(err, details)
	}
}

// --- Mapper Functions ---

func fromAccountDomain(a *entity.Account) model.AccountColumns {
	return model.AccountColumns{
		ID:           a.ID,
		NationalID:   a.NationalID,
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Phone:        a.Phone,
		CountryID:    a.CountryID,
		RegionID:     a.RegionID,
		CommuneID:    a.CommuneID,
		RatingAvg:    a.RatingAvg,
	}
}

func toAccountDomain(kind entity.AccountKind, c *model.AccountColumns) *entity.Account {
	return &entity.Account{
		ID:           c.ID,
		Kind:         kind,
		NationalID:   c.NationalID,
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Phone:        c.Phone,
		CountryID:    c.CountryID,
		RegionID:     c.RegionID,
		CommuneID:    c.CommuneID,
		RatingAvg:    c.RatingAvg,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func toUsuarioDomain(m *model.UsuarioModel) *entity.Account {
	return toAccountDomain(entity.AccountKindUsuario, &m.AccountColumns)
}

func toInerDomain(m *model.InerModel) *entity.Account {
	account := toAccountDomain(entity.AccountKindIner, &m.AccountColumns)
	account.ProfileDescription = m.ProfileDescription
	account.Address = m.Address

	return account
}
