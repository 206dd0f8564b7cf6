package context

import (
	"context"

	"iner/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// KeyClaims is the key for the verified session claims.
const KeyClaims ContextKey = "claims"

// SetClaims stores verified claims on both the echo context and the request context.
func SetClaims(c echo.Context, claims *service.Claims) {
	c.Set(string(KeyClaims), claims)
	c.SetRequest(c.Request().WithContext(WithClaims(c.Request().Context(), claims)))
}

// GetClaims returns the claims set by the auth middleware, or nil on public routes.
func GetClaims(c echo.Context) *service.Claims {
	if claims, ok := c.Get(string(KeyClaims)).(*service.Claims); ok {
		return claims
	}

	return nil
}

// WithClaims returns a new context carrying the claims.
func WithClaims(ctx context.Context, claims *service.Claims) context.Context {
	return context.WithValue(ctx, KeyClaims, claims)
}

// ClaimsFromContext returns the claims carried by ctx, or nil.
func ClaimsFromContext(ctx context.Context) *service.Claims {
	if claims, ok := ctx.Value(KeyClaims).(*service.Claims); ok {
		return claims
	}

	return nil
}
