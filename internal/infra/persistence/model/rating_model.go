package model

import (
	"time"

	"github.com/google/uuid"
)

// ServiceModel mirrors the columns of the 'services' table that rating aggregation reads and writes.
type ServiceModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	InerID    uuid.UUID `gorm:"column:iner_id;type:uuid;not null;index"`
	Title     string    `gorm:"type:varchar(150);not null"`
	RatingAvg *int      `gorm:"column:rating_avg"`
}

// TableName explicitly sets the table name for GORM.
func (ServiceModel) TableName() string {
	return "services"
}

// ServiceRatingModel mirrors the 'service_ratings' table, keyed by (service_id, usuario_id, contract_id).
type ServiceRatingModel struct {
	ServiceID  int64     `gorm:"column:service_id;primaryKey;autoIncrement:false"`
	UsuarioID  uuid.UUID `gorm:"column:usuario_id;type:uuid;primaryKey"`
	ContractID int64     `gorm:"column:contract_id;primaryKey;autoIncrement:false"`
	Score      int       `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (ServiceRatingModel) TableName() string {
	return "service_ratings"
}

// UsuarioRatingModel mirrors the 'usuario_ratings' table, keyed by (iner_id, usuario_id).
// contract_id is recorded but is not part of the key.
type UsuarioRatingModel struct {
	InerID     uuid.UUID `gorm:"column:iner_id;type:uuid;primaryKey"`
	UsuarioID  uuid.UUID `gorm:"column:usuario_id;type:uuid;primaryKey;index"`
	ContractID int64     `gorm:"column:contract_id;not null"`
	Score      int       `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (UsuarioRatingModel) TableName() string {
	return "usuario_ratings"
}

// All lists every model the core tables are built from, in dependency order.
func All() []any {
	return []any{
		&UsuarioModel{},
		&InerModel{},
		&ServiceModel{},
		&ServiceRatingModel{},
		&UsuarioRatingModel{},
	}
}
