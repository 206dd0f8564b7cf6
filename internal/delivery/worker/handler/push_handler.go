// Package handler holds the worker's Pub/Sub push handlers.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"iner/config"
	deliverycontext "iner/internal/delivery/context"
	"iner/internal/domain/entity"
	domainerrors "iner/internal/domain/errors"
	"iner/internal/domain/service"
	"iner/internal/infra/pubsub"
	"iner/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// retryableError marks a failure that Pub/Sub should redeliver
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

func newRetryableError(err error) error {
	return &retryableError{err: err}
}

func isRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// tokenValidator checks a Google-signed OIDC token for the given audience.
type tokenValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// PushHandler consumes rating aggregate events and propagates a service's new
// average to the iner that owns it.
type PushHandler struct {
	verifyPushAuth bool
	pushAudience   string
	validateToken  tokenValidator
	logger         *slog.Logger
	ratingUC       usecase.RatingUsecase
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config   *config.Config
	Logger   *slog.Logger
	RatingUC usecase.RatingUsecase
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == pubsub.ProviderGoogle &&
		!params.Config.IsDevelopment()

	pushAudience := ""
	if params.Config.PubSub != nil {
		pushAudience = params.Config.PubSub.PushAudience
	}

	return &PushHandler{
		verifyPushAuth: verifyPushAuth,
		pushAudience:   pushAudience,
		validateToken:  idtoken.Validate,
		logger:         params.Logger,
		ratingUC:       params.RatingUC,
	}
}

// HandlePush answers 503 for failures worth redelivering and 200 for everything
// else, including messages that can never succeed.
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := h.verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg pubsub.PushMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event service.RatingAggregateEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse rating event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	requestID := extractRequestID(ctx, &pushMsg, &event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Processing rating event",
		slog.String("message_id", pushMsg.Message.MessageID),
		slog.String("target_kind", event.TargetKind),
		slog.String("target_id", event.TargetID),
	)

	if err := h.propagate(ctx, &event); err != nil {
		reqLogger.Error("[Worker] Failed to process rating event",
			slog.String("message_id", pushMsg.Message.MessageID),
			slog.Any("error", err),
			slog.Bool("retryable", isRetryableError(err)),
		)
		if isRetryableError(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	return c.NoContent(http.StatusOK)
}

// propagate recomputes the owning iner after a servicio recompute. Account
// events end the chain, so an iner recompute never loops back here.
func (h *PushHandler) propagate(ctx context.Context, event *service.RatingAggregateEvent) error {
	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)

	if entity.RatingTargetKind(event.TargetKind) != entity.RatingTargetService || event.ParentID == "" {
		logger.Debug("[Worker] Nothing to propagate", slog.String("target_kind", event.TargetKind))

		return nil
	}

	inerID, err := uuid.Parse(event.ParentID)
	if err != nil {
		return errors.Wrapf(err, "invalid parent id %q", event.ParentID)
	}

	output, err := h.ratingUC.Recompute(ctx, entity.InerTarget(inerID))
	if err != nil {
		if isClientError(err) {
			return err
		}

		return newRetryableError(err)
	}
	if output == nil {
		logger.Info("[Worker] Iner no longer exists", slog.String("iner_id", inerID.String()))

		return nil
	}

	logger.Info("[Worker] Iner rating propagated",
		slog.String("iner_id", inerID.String()),
		slog.String("service_id", event.TargetID),
		slog.Any("rating_avg", output.RatingAvg),
	)

	return nil
}

func isClientError(err error) bool {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPCode() < http.StatusInternalServerError
	}

	return false
}

// extractRequestID prefers message attributes, then the payload, then the
// X-Request-Id header, and generates one as a last resort.
func extractRequestID(ctx context.Context, pushMsg *pubsub.PushMessage, event *service.RatingAggregateEvent) string {
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}
	if event.RequestID != "" {
		return event.RequestID
	}
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// verifyPubSubToken checks the OIDC token Google attaches to authenticated push requests.
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func (h *PushHandler) verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	payload, err := h.validateToken(req.Context(), token, h.audience(req))
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}

// audience is the push endpoint URL configured on the subscription. Without a
// configured value it is rebuilt from the request as seen by the front end.
func (h *PushHandler) audience(req *http.Request) string {
	if h.pushAudience != "" {
		return h.pushAudience
	}

	scheme := "http"
	if req.TLS != nil {
		scheme = "https"
	}
	if proto := req.Header.Get(echo.HeaderXForwardedProto); proto == "http" || proto == "https" {
		scheme = proto
	}

	return fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)
}
