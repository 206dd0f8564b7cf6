package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountColumns holds the columns shared by the 'usuarios' and 'iners' tables.
// IDs are generated by the repository before insert.
type AccountColumns struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	NationalID   string    `gorm:"column:national_id;type:varchar(12);not null;uniqueIndex"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null"`
	Phone        *string   `gorm:"type:varchar(20)"`
	CountryID    int64     `gorm:"column:country_id;not null"`
	RegionID     int64     `gorm:"column:region_id;not null"`
	CommuneID    int64     `gorm:"column:commune_id;not null"`
	RatingAvg    *int      `gorm:"column:rating_avg"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UsuarioModel mirrors the 'usuarios' table.
type UsuarioModel struct {
	AccountColumns
}

// TableName explicitly sets the table name for GORM.
func (UsuarioModel) TableName() string {
	return "usuarios"
}

// InerModel mirrors the 'iners' table.
type InerModel struct {
	AccountColumns
	ProfileDescription *string `gorm:"column:profile_description;type:text"`
	Address            *string `gorm:"type:varchar(255)"`
}

// TableName explicitly sets the table name for GORM.
func (InerModel) TableName() string {
	return "iners"
}
