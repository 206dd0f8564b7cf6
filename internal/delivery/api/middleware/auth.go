// Package middleware contains echo middlewares specific to the API routes.
package middleware

import (
	"log/slog"
	"strings"

	"iner/internal/delivery/api/response"
	deliverycontext "iner/internal/delivery/context"
	domainerrors "iner/internal/domain/errors"
	"iner/internal/domain/service"
	"iner/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const bearerPrefix = "Bearer "

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
	Logger *slog.Logger
}

// AuthMiddleware guards routes that need a valid session token.
type AuthMiddleware struct {
	authUC usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{
		authUC: params.AuthUC,
		logger: params.Logger,
	}
}

// Authenticate rejects the request with 403 when no Authorization header is sent and with 401
// when the header is not a Bearer token or the token does not verify.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.HandleAppError(c, domainerrors.ErrMissingToken)
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			m.log(c).Debug("Authorization header is not a bearer token", slog.String("path", c.Path()))

			return response.HandleAppError(c, domainerrors.ErrMalformedToken)
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			return response.HandleAppError(c, domainerrors.ErrMalformedToken)
		}

		claims, err := m.authUC.VerifyToken(c.Request().Context(), tokenString)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		deliverycontext.SetClaims(c, claims)

		return next(c)
	}
}

func (m *AuthMiddleware) log(c echo.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)
}

// GetClaims returns the claims of the authenticated caller. It must be used after Authenticate.
func GetClaims(c echo.Context) (*service.Claims, bool) {
	claims := deliverycontext.GetClaims(c)

	return claims, claims != nil
}
