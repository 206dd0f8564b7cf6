package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"iner/config"
	"iner/internal/domain/entity"
	"iner/internal/domain/service"
	"iner/internal/errors"
)

// TokenTTL is the lifetime of a session token.
const TokenTTL = time.Hour

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
type jwtService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService. An empty secret is a startup error.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg == nil || cfg.SecretKey.JWT == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	return newJWTService(cfg.SecretKey.JWT, TokenTTL, time.Now), nil
}

func newJWTService(secret string, ttl time.Duration, now func() time.Time) *jwtService {
	return &jwtService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    now,
	}
}

// GenerateToken signs {account_id, email, kind} with the shared secret.
func (s *jwtService) GenerateToken(account *entity.Account) (string, time.Time, error) {
	if account == nil {
		return "", time.Time{}, errors.New("account is required")
	}

	issuedAt := s.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.ttl)

	claims := &service.Claims{
		AccountID: account.ID,
		Email:     account.Email,
		Kind:      account.Kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign token")
	}

	return signed, expiresAt, nil
}

// ValidateToken parses the token, rejecting anything not signed with HS256 by our secret or past its expiry.
func (s *jwtService) ValidateToken(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Wrap(err, "parse token")
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	return claims, nil
}

func (s *jwtService) TokenDuration() time.Duration {
	return s.ttl
}
