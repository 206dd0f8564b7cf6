package entity

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Score bounds shared by both rating kinds.
const (
	MinScore = 1
	MaxScore = 5
)

// ValidScore reports whether score is within MinScore..MaxScore.
func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}

// ServiceRatingKey identifies a rating a Usuario gave a Service under one contract.
type ServiceRatingKey struct {
	ServiceID  int64
	UsuarioID  uuid.UUID
	ContractID int64
}

// ServiceRating is a Usuario's score for a Service, licensed by a contract.
type ServiceRating struct {
	ServiceRatingKey
	Score     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UsuarioRatingKey identifies the rating an Iner gave a Usuario. The contract is not part of it.
type UsuarioRatingKey struct {
	InerID    uuid.UUID
	UsuarioID uuid.UUID
}

// UsuarioRating is an Iner's score for a Usuario.
type UsuarioRating struct {
	UsuarioRatingKey
	ContractID int64
	Score      int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RatingTargetKind names the entity whose rating_avg a recompute writes.
type RatingTargetKind string

const (
	RatingTargetService RatingTargetKind = "servicio"
	RatingTargetIner    RatingTargetKind = "iner"
	RatingTargetUsuario RatingTargetKind = "usuario"
)

// RatingTarget selects the rating rows to average and the row that receives the result.
// Exactly one of ServiceID or AccountID is meaningful, depending on Kind.
type RatingTarget struct {
	Kind      RatingTargetKind
	ServiceID int64
	AccountID uuid.UUID
}

// ServiceTarget averages the ratings of one service.
func ServiceTarget(id int64) RatingTarget {
	return RatingTarget{Kind: RatingTargetService, ServiceID: id}
}

// InerTarget averages the service ratings of every service the Iner offers.
func InerTarget(id uuid.UUID) RatingTarget {
	return RatingTarget{Kind: RatingTargetIner, AccountID: id}
}

// UsuarioTarget averages the ratings Iners gave a Usuario.
func UsuarioTarget(id uuid.UUID) RatingTarget {
	return RatingTarget{Kind: RatingTargetUsuario, AccountID: id}
}

// Valid reports whether the target kind is known.
func (t RatingTarget) Valid() bool {
	switch t.Kind {
	case RatingTargetService, RatingTargetIner, RatingTargetUsuario:
		return true
	default:
		return false
	}
}

func (t RatingTarget) String() string {
	if t.Kind == RatingTargetService {
		return fmt.Sprintf("%s:%d", t.Kind, t.ServiceID)
	}

	return fmt.Sprintf("%s:%s", t.Kind, t.AccountID)
}

// RoundAverage rounds a mean to the nearest integer, halves away from zero. A nil mean stays nil.
func RoundAverage(avg *float64) *int {
	if avg == nil {
		return nil
	}

	rounded := int(math.Round(*avg))

	return &rounded
}
