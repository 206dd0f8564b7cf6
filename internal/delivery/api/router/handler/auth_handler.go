package handler

import (
	"net/http"

	"iner/internal/delivery/api/middleware"
	"iner/internal/delivery/api/response"
	domainerrors "iner/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

// AuthHandler exposes session token checks.
type AuthHandler struct{}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Verify returns the claims the auth middleware verified for this request.
func (h *AuthHandler) Verify(c echo.Context) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.HandleAppError(c, domainerrors.ErrInvalidOrExpiredToken)
	}

	out := &ClaimsResponse{
		AccountID: claims.AccountID,
		Email:     claims.Email,
		Kind:      claims.Kind.String(),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = &claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = &claims.ExpiresAt.Time
	}

	return response.Success(c, http.StatusOK, out)
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}
