// Package router registers the API routes on echo.
package router

import (
	"iner/internal/delivery/api/middleware"
	"iner/internal/delivery/api/router/handler"
	"iner/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
	AuthHandler    *handler.AuthHandler
	RatingHandler  *handler.RatingHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
	authHandler    *handler.AuthHandler
	ratingHandler  *handler.RatingHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler: params.AccountHandler,
		authHandler:    params.AuthHandler,
		ratingHandler:  params.RatingHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api")
	auth := r.authMiddleware.Authenticate

	r.registerAccountRoutes(api.Group("/usuarios"), entity.AccountKindUsuario)
	r.registerAccountRoutes(api.Group("/iner"), entity.AccountKindIner)

	api.GET("/auth/verify", r.authHandler.Verify, auth)

	ratings := api.Group("/valoraciones")
	{
		ratings.POST("/servicios", r.ratingHandler.CreateServiceRating, auth)
		ratings.GET("/servicios", r.ratingHandler.ListServiceRatings)
		ratings.GET("/servicios/:serviceId/:usuarioId/:contractId", r.ratingHandler.GetServiceRating)
		ratings.PUT("/servicios/:serviceId/:usuarioId/:contractId", r.ratingHandler.UpdateServiceRating, auth)
		ratings.DELETE("/servicios/:serviceId/:usuarioId/:contractId", r.ratingHandler.DeleteServiceRating, auth)

		ratings.POST("/usuarios", r.ratingHandler.CreateUsuarioRating, auth)
		ratings.GET("/usuarios", r.ratingHandler.ListUsuarioRatings)
		ratings.GET("/usuarios/usuario/:usuarioId", r.ratingHandler.ListRatingsForUsuario)
		ratings.GET("/usuarios/:inerId/:usuarioId", r.ratingHandler.GetUsuarioRating)
		ratings.PUT("/usuarios/:inerId/:usuarioId", r.ratingHandler.UpdateUsuarioRating, auth)
		ratings.DELETE("/usuarios/:inerId/:usuarioId", r.ratingHandler.DeleteUsuarioRating, auth)

		ratings.GET("/promedio/:target/:id", r.ratingHandler.Average)
		ratings.PUT("/promedio/:target/:id", r.ratingHandler.Recompute, auth)
	}
}

// registerAccountRoutes mounts the same account routes for one account kind.
func (r *router) registerAccountRoutes(g *echo.Group, kind entity.AccountKind) {
	g.POST("/register", r.accountHandler.Register(kind))
	g.POST("/login", r.accountHandler.Login(kind))

	auth := r.authMiddleware.Authenticate
	g.GET("", r.accountHandler.List(kind), auth)
	g.GET("/rut/:rut", r.accountHandler.GetByNationalID(kind), auth)
	g.GET("/:id", r.accountHandler.Get(kind), auth)
	g.PUT("/:id", r.accountHandler.Update(kind), auth)
	g.DELETE("/:id", r.accountHandler.Delete(kind), auth)
}
