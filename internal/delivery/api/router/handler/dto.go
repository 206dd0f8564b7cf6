package handler

import (
	"time"

	"iner/internal/domain/entity"

	"github.com/google/uuid"
)

// RegisterAccountRequest is the body of POST /api/{usuarios,iner}/register.
type RegisterAccountRequest struct {
	NationalID string  `json:"national_id" validate:"required,max=12"`
	Name       string  `json:"name" validate:"required,max=100"`
	Email      string  `json:"email" validate:"required,email,max=255"`
	Password   string  `json:"password" validate:"required,max=72"`
	Phone      *string `json:"phone" validate:"omitempty,max=20"`
	CountryID  int64   `json:"country_id" validate:"required,gt=0"`
	RegionID   int64   `json:"region_id" validate:"required,gt=0"`
	CommuneID  int64   `json:"commune_id" validate:"required,gt=0"`

	ProfileDescription *string `json:"profile_description" validate:"omitempty,max=2000"`
	Address            *string `json:"address" validate:"omitempty,max=255"`
}

// UpdateAccountRequest is the body of PUT /api/{usuarios,iner}/:id. An absent or empty password keeps the current one.
type UpdateAccountRequest struct {
	NationalID string  `json:"national_id" validate:"required,max=12"`
	Name       string  `json:"name" validate:"required,max=100"`
	Email      string  `json:"email" validate:"required,email,max=255"`
	Password   *string `json:"password" validate:"omitempty,max=72"`
	Phone      *string `json:"phone" validate:"omitempty,max=20"`
	CountryID  int64   `json:"country_id" validate:"required,gt=0"`
	RegionID   int64   `json:"region_id" validate:"required,gt=0"`
	CommuneID  int64   `json:"commune_id" validate:"required,gt=0"`

	ProfileDescription *string `json:"profile_description" validate:"omitempty,max=2000"`
	Address            *string `json:"address" validate:"omitempty,max=255"`
}

// LoginRequest is the body of POST /api/{usuarios,iner}/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AccountResponse is the public view of an account. The password hash is never serialised.
type AccountResponse struct {
	ID                 uuid.UUID `json:"id"`
	Kind               string    `json:"kind"`
	NationalID         string    `json:"national_id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Phone              *string   `json:"phone"`
	CountryID          int64     `json:"country_id"`
	RegionID           int64     `json:"region_id"`
	CommuneID          int64     `json:"commune_id"`
	RatingAvg          *int      `json:"rating_avg"`
	ProfileDescription *string   `json:"profile_description,omitempty"`
	Address            *string   `json:"address,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// LoginResponse carries the session token and the logged-in account.
type LoginResponse struct {
	Token     string           `json:"token"`
	TokenType string           `json:"token_type"`
	ExpiresAt time.Time        `json:"expires_at"`
	Account   *AccountResponse `json:"account"`
}

// ClaimsResponse is the verified content of a session token.
type ClaimsResponse struct {
	AccountID uuid.UUID  `json:"account_id"`
	Email     string     `json:"email"`
	Kind      string     `json:"kind"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// CreateServiceRatingRequest is the body of POST /api/valoraciones/servicios.
type CreateServiceRatingRequest struct {
	ServiceID  int64     `json:"service_id" validate:"required,gt=0"`
	UsuarioID  uuid.UUID `json:"usuario_id" validate:"required"`
	ContractID int64     `json:"contract_id" validate:"required,gt=0"`
	Score      int       `json:"score" validate:"required,min=1,max=5"`
}

// CreateUsuarioRatingRequest is the body of POST /api/valoraciones/usuarios.
type CreateUsuarioRatingRequest struct {
	InerID     uuid.UUID `json:"iner_id" validate:"required"`
	UsuarioID  uuid.UUID `json:"usuario_id" validate:"required"`
	ContractID int64     `json:"contract_id" validate:"required,gt=0"`
	Score      int       `json:"score" validate:"required,min=1,max=5"`
}

// UpdateScoreRequest is the body of the rating PUT routes.
type UpdateScoreRequest struct {
	Score int `json:"score" validate:"required,min=1,max=5"`
}

// ServiceRatingResponse is the public view of a service rating.
type ServiceRatingResponse struct {
	ServiceID  int64     `json:"service_id"`
	UsuarioID  uuid.UUID `json:"usuario_id"`
	ContractID int64     `json:"contract_id"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UsuarioRatingResponse is the public view of a usuario rating.
type UsuarioRatingResponse struct {
	InerID     uuid.UUID `json:"iner_id"`
	UsuarioID  uuid.UUID `json:"usuario_id"`
	ContractID int64     `json:"contract_id"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AverageResponse reports a target's mean score. Average is null when the target has no ratings.
type AverageResponse struct {
	Target    string   `json:"target"`
	ID        string   `json:"id"`
	Average   *float64 `json:"average"`
	RatingAvg *int     `json:"rating_avg,omitempty"`
}

func toAccountResponse(a *entity.Account) *AccountResponse {
	return &AccountResponse{
		ID:                 a.ID,
		Kind:               a.Kind.String(),
		NationalID:         a.NationalID,
		Name:               a.Name,
		Email:              a.Email,
		Phone:              a.Phone,
		CountryID:          a.CountryID,
		RegionID:           a.RegionID,
		CommuneID:          a.CommuneID,
		RatingAvg:          a.RatingAvg,
		ProfileDescription: a.ProfileDescription,
		Address:            a.Address,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func toAccountResponses(accounts []*entity.Account) []*AccountResponse {
	out := make([]*AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}

	return out
}

func toServiceRatingResponse(r *entity.ServiceRating) *ServiceRatingResponse {
	return &ServiceRatingResponse{
		ServiceID:  r.ServiceID,
		UsuarioID:  r.UsuarioID,
		ContractID: r.ContractID,
		Score:      r.Score,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toUsuarioRatingResponse(r *entity.UsuarioRating) *UsuarioRatingResponse {
	return &UsuarioRatingResponse{
		InerID:     r.InerID,
		UsuarioID:  r.UsuarioID,
		ContractID: r.ContractID,
		Score:      r.Score,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
