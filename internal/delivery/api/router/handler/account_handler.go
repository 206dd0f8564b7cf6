// Package handler contains the HTTP handlers for the API routes.
package handler

import (
	"log/slog"
	"net/http"

	"iner/internal/delivery/api/response"
	"iner/internal/domain/entity"
	domainerrors "iner/internal/domain/errors"
	"iner/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AccountHandlerParams holds dependencies for AccountHandler, injected by Fx.
type AccountHandlerParams struct {
	fx.In

	AuthUC    usecase.AuthUsecase
	AccountUC usecase.AccountUsecase
	Logger    *slog.Logger
}

// AccountHandler serves the usuario and iner account routes. Each method returns the handler
// for one account kind, so both route groups share the same code.
type AccountHandler struct {
	authUC    usecase.AuthUsecase
	accountUC usecase.AccountUsecase
	logger    *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler
func NewAccountHandler(params AccountHandlerParams) *AccountHandler {
	return &AccountHandler{
		authUC:    params.AuthUC,
		accountUC: params.AccountUC,
		logger:    params.Logger,
	}
}

// Register handles account registration
func (h *AccountHandler) Register(kind entity.AccountKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req RegisterAccountRequest
		if err := c.Bind(&req); err != nil {
			return response.BindingError(c, "Invalid registration input")
		}
		if err := c.Validate(&req); err != nil {
			return response.HandleAppError(c, err)
		}

		account, err := h.authUC.Register(c.Request().Context(), &usecase.RegisterAccountInput{
			Kind:               kind,
			NationalID:         req.NationalID,
			Name:               req.Name,
			Email:              req.Email,
			Password:           req.Password,
			Phone:              req.Phone,
			CountryID:          req.CountryID,
			RegionID:           req.RegionID,
			CommuneID:          req.CommuneID,
			ProfileDescription: req.ProfileDescription,
			Address:            req.Address,
		})
		if err != nil {
			return response.HandleAppError(c, err)
		}

		return response.Success(c, http.StatusCreated, toAccountResponse(account))
	}
}

// Login handles email and password login
func (h *AccountHandler) Login(kind entity.AccountKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req LoginRequest
		if err := c.Bind(&req); err != nil {
			return response.BindingError(c, "Invalid login input")
		}
		if err := c.Validate(&req); err != nil {
			return response.HandleAppError(c, err)
		}

		output, err := h.authUC.Login(c.Request().Context(), &usecase.LoginInput{
			Kind:     kind,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			return response.HandleAppError(c, err)
		}

		return response.Success(c, http.StatusOK, &LoginResponse{
			Token:     output.Token,
			TokenType: "Bearer",
			ExpiresAt: output.ExpiresAt,
			Account:   toAccountResponse(output.Account),
		})
	}
}

// List handles listing all accounts of the kind, newest first
func (h *AccountHandler) List(kind entity.AccountKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		accounts, err := h.accountUC.ListAccounts(c.Request().Context(), kind)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		return response.Success(c, http.StatusOK, toAccountResponses(accounts))
	}
}

// Get handles retrieving one account by id
func (h *AccountHandler) Get(kind entity.AccountKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseUUIDParam(c, "id")
		if err != nil {
			return response.HandleAppError(c, err)
		}

		account, err := h.accountUC.GetAccount(c.Request().Context(), kind, id)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		return response.Success(c, http.StatusOK, toAccountResponse(account))
	}
}

// GetByNationalID handles retrieving one account by RUT
func (h *AccountHandler) GetByNationalID(kind entity.AccountKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		account, err := h.accountUC.GetAccountByNationalID(c.Request().Context(), kind, c.Param("rut"))
		if err != nil {
			return response.HandleAppError(c, err)
		}

		return response.Success(c, http.StatusOK, toAccountResponse(account))
	}
}

// Update handles replacing an account's profile
func (h *AccountHandler) Update(kind entity.AccountKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseUUIDParam(c, "id")
		if err != nil {
			return response.HandleAppError(c, err)
		}

		var req UpdateAccountRequest
		if err := c.Bind(&req); err != nil {
			return response.BindingError(c, "Invalid account input")
		}
		if err := c.Validate(&req); err != nil {
			return response.HandleAppError(c, err)
		}

		account, err := h.authUC.UpdateAccount(c.Request().Context(), &usecase.UpdateAccountInput{
			Kind:               kind,
			ID:                 id,
			NationalID:         req.NationalID,
			Name:               req.Name,
			Email:              req.Email,
			Password:           req.Password,
			Phone:              req.Phone,
			CountryID:          req.CountryID,
			RegionID:           req.RegionID,
			CommuneID:          req.CommuneID,
			ProfileDescription: req.ProfileDescription,
			Address:            req.Address,
		})
		if err != nil {
			return response.HandleAppError(c, err)
		}

		return response.Success(c, http.StatusOK, toAccountResponse(account))
	}
}

// Delete handles removing an account
func (h *AccountHandler) Delete(kind entity.AccountKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseUUIDParam(c, "id")
		if err != nil {
			return response.HandleAppError(c, err)
		}

		if err := h.accountUC.DeleteAccount(c.Request().Context(), kind, id); err != nil {
			return response.HandleAppError(c, err)
		}

		return response.Success(c, http.StatusOK, map[string]string{"message": "Account deleted successfully"})
	}
}

func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WithDetails("invalid " + name)
	}

	return id, nil
}
