package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"iner/internal/delivery/api/response"
	"iner/internal/domain/entity"
	domainerrors "iner/internal/domain/errors"
	"iner/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RatingHandlerParams holds dependencies for RatingHandler, injected by Fx.
type RatingHandlerParams struct {
	fx.In

	RatingUC usecase.RatingUsecase
	Logger   *slog.Logger
}

// RatingHandler serves the /api/valoraciones routes.
type RatingHandler struct {
	ratingUC usecase.RatingUsecase
	logger   *slog.Logger
}

// NewRatingHandler is the constructor for RatingHandler
func NewRatingHandler(params RatingHandlerParams) *RatingHandler {
	return &RatingHandler{
		ratingUC: params.RatingUC,
		logger:   params.Logger,
	}
}

// --- Service ratings ---

func (h *RatingHandler) CreateServiceRating(c echo.Context) error {
	var req CreateServiceRatingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid rating input")
	}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	rating, err := h.ratingUC.CreateServiceRating(c.Request().Context(), &entity.ServiceRating{
		ServiceRatingKey: entity.ServiceRatingKey{
			ServiceID:  req.ServiceID,
			UsuarioID:  req.UsuarioID,
			ContractID: req.ContractID,
		},
		Score: req.Score,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, toServiceRatingResponse(rating))
}

func (h *RatingHandler) ListServiceRatings(c echo.Context) error {
	ratings, err := h.ratingUC.ListServiceRatings(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	out := make([]*ServiceRatingResponse, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, toServiceRatingResponse(r))
	}

	return response.Success(c, http.StatusOK, out)
}

func (h *RatingHandler) GetServiceRating(c echo.Context) error {
	key, err := serviceRatingKeyParams(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	rating, err := h.ratingUC.GetServiceRating(c.Request().Context(), key)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toServiceRatingResponse(rating))
}

func (h *RatingHandler) UpdateServiceRating(c echo.Context) error {
	key, err := serviceRatingKeyParams(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req UpdateScoreRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid score input")
	}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	rating, err := h.ratingUC.UpdateServiceRating(c.Request().Context(), key, req.Score)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toServiceRatingResponse(rating))
}

func (h *RatingHandler) DeleteServiceRating(c echo.Context) error {
	key, err := serviceRatingKeyParams(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.ratingUC.DeleteServiceRating(c.Request().Context(), key); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Rating deleted successfully"})
}

// --- Usuario ratings ---

func (h *RatingHandler) CreateUsuarioRating(c echo.Context) error {
	var req CreateUsuarioRatingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid rating input")
	}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	rating, err := h.ratingUC.CreateUsuarioRating(c.Request().Context(), &entity.UsuarioRating{
		UsuarioRatingKey: entity.UsuarioRatingKey{
			InerID:    req.InerID,
			UsuarioID: req.UsuarioID,
		},
		ContractID: req.ContractID,
		Score:      req.Score,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, toUsuarioRatingResponse(rating))
}

func (h *RatingHandler) ListUsuarioRatings(c echo.Context) error {
	ratings, err := h.ratingUC.ListUsuarioRatings(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toUsuarioRatingResponses(ratings))
}

func (h *RatingHandler) ListRatingsForUsuario(c echo.Context) error {
	usuarioID, err := parseUUIDParam(c, "usuarioId")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	ratings, err := h.ratingUC.ListRatingsForUsuario(c.Request().Context(), usuarioID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toUsuarioRatingResponses(ratings))
}

func (h *RatingHandler) GetUsuarioRating(c echo.Context) error {
	key, err := usuarioRatingKeyParams(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	rating, err := h.ratingUC.GetUsuarioRating(c.Request().Context(), key)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toUsuarioRatingResponse(rating))
}

func (h *RatingHandler) UpdateUsuarioRating(c echo.Context) error {
	key, err := usuarioRatingKeyParams(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req UpdateScoreRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid score input")
	}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	rating, err := h.ratingUC.UpdateUsuarioRating(c.Request().Context(), key, req.Score)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toUsuarioRatingResponse(rating))
}

func (h *RatingHandler) DeleteUsuarioRating(c echo.Context) error {
	key, err := usuarioRatingKeyParams(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.ratingUC.DeleteUsuarioRating(c.Request().Context(), key); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Rating deleted successfully"})
}

// --- Aggregates ---

// Average handles GET /promedio/:target/:id. It reads the live mean and writes nothing.
func (h *RatingHandler) Average(c echo.Context) error {
	target, err := ratingTargetParams(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	avg, err := h.ratingUC.AverageFor(c.Request().Context(), target)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, &AverageResponse{
		Target:  string(target.Kind),
		ID:      c.Param("id"),
		Average: avg,
	})
}

// Recompute handles PUT /promedio/:target/:id, storing the rounded mean in rating_avg.
func (h *RatingHandler) Recompute(c echo.Context) error {
	target, err := ratingTargetParams(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	output, err := h.ratingUC.Recompute(c.Request().Context(), target)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	if output == nil {
		return response.HandleAppError(c, domainerrors.ErrRatingTargetNotFound.WithDetails(target.String()))
	}

	return response.Success(c, http.StatusOK, &AverageResponse{
		Target:    string(target.Kind),
		ID:        c.Param("id"),
		Average:   output.Average,
		RatingAvg: output.RatingAvg,
	})
}

func toUsuarioRatingResponses(ratings []*entity.UsuarioRating) []*UsuarioRatingResponse {
	out := make([]*UsuarioRatingResponse, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, toUsuarioRatingResponse(r))
	}

	return out
}

func serviceRatingKeyParams(c echo.Context) (entity.ServiceRatingKey, error) {
	serviceID, err := parseIDParam(c, "serviceId")
	if err != nil {
		return entity.ServiceRatingKey{}, err
	}
	usuarioID, err := parseUUIDParam(c, "usuarioId")
	if err != nil {
		return entity.ServiceRatingKey{}, err
	}
	contractID, err := parseIDParam(c, "contractId")
	if err != nil {
		return entity.ServiceRatingKey{}, err
	}

	return entity.ServiceRatingKey{ServiceID: serviceID, UsuarioID: usuarioID, ContractID: contractID}, nil
}

func usuarioRatingKeyParams(c echo.Context) (entity.UsuarioRatingKey, error) {
	inerID, err := parseUUIDParam(c, "inerId")
	if err != nil {
		return entity.UsuarioRatingKey{}, err
	}
	usuarioID, err := parseUUIDParam(c, "usuarioId")
	if err != nil {
		return entity.UsuarioRatingKey{}, err
	}

	return entity.UsuarioRatingKey{InerID: inerID, UsuarioID: usuarioID}, nil
}

func ratingTargetParams(c echo.Context) (entity.RatingTarget, error) {
	switch entity.RatingTargetKind(c.Param("target")) {
	case entity.RatingTargetService:
		id, err := parseIDParam(c, "id")
		if err != nil {
			return entity.RatingTarget{}, err
		}

		return entity.ServiceTarget(id), nil
	case entity.RatingTargetIner:
		id, err := parseUUIDParam(c, "id")
		if err != nil {
			return entity.RatingTarget{}, err
		}

		return entity.InerTarget(id), nil
	case entity.RatingTargetUsuario:
		id, err := parseUUIDParam(c, "id")
		if err != nil {
			return entity.RatingTarget{}, err
		}

		return entity.UsuarioTarget(id), nil
	default:
		return entity.RatingTarget{}, domainerrors.ErrUnknownRatingTarget
	}
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domainerrors.ErrValidationFailed.WithDetails("invalid " + name)
	}

	return id, nil
}
