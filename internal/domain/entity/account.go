// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// AccountKind tells the two account variants apart. Both share the same credential flow.
type AccountKind string

const (
	AccountKindUsuario AccountKind = "usuario" // consumer account
	AccountKindIner    AccountKind = "iner"    // service provider account
)

// Valid reports whether k names a known account variant.
func (k AccountKind) Valid() bool {
	return k == AccountKindUsuario || k == AccountKindIner
}

func (k AccountKind) String() string {
	return string(k)
}

// Account is a registered principal, either a Usuario or an Iner.
type Account struct {
	ID           uuid.UUID   // Generated on insert.
	Kind         AccountKind // Which table the account lives in.
	NationalID   string      // Chilean RUT, unique per kind.
	Name         string
	Email        string // Unique per kind, used as the login identifier.
	PasswordHash string // bcrypt hash. Never the plaintext and never serialised.
	Phone        *string
	CountryID    int64
	RegionID     int64
	CommuneID    int64
	RatingAvg    *int // Rounded mean of received ratings; nil until the first recompute with data.

	// Iner only.
	ProfileDescription *string
	Address            *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccountUpdate carries the columns an update writes. A nil PasswordHash leaves the stored hash untouched.
type AccountUpdate struct {
	NationalID         string
	Name               string
	Email              string
	PasswordHash       *string
	Phone              *string
	CountryID          int64
	RegionID           int64
	CommuneID          int64
	ProfileDescription *string
	Address            *string
}
