package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"iner/config"
	deliverycontext "iner/internal/delivery/context"
	"iner/internal/domain/entity"
	domainerrors "iner/internal/domain/errors"
	"iner/internal/domain/service"
	"iner/internal/infra/pubsub"
	mockRepo "iner/internal/mocks/repository"
	mockSvc "iner/internal/mocks/service"
	"iner/internal/usecase/impl"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

type pushFixture struct {
	e          *echo.Echo
	handler    *PushHandler
	accounts   *mockRepo.MockAccountRepository
	aggregates *mockRepo.MockRatingAggregateRepository
}

func newPushFixture(t *testing.T, cfg *config.Config) *pushFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &pushFixture{
		accounts:   mockRepo.NewMockAccountRepository(t),
		aggregates: mockRepo.NewMockRatingAggregateRepository(t),
	}

	publisher := mockSvc.NewMockEventPublisher(t)
	publisher.On("PublishRatingEvent", mock.Anything, mock.Anything).Return(nil).Maybe()

	ratingUC := impl.NewRatingService(impl.RatingServiceParams{
		ServiceRatingRepo: mockRepo.NewMockServiceRatingRepository(t),
		UsuarioRatingRepo: mockRepo.NewMockUsuarioRatingRepository(t),
		AggregateRepo:     f.aggregates,
		AccountRepo:       f.accounts,
		Publisher:         publisher,
		Logger:            logger,
	})

	f.handler = NewPushHandler(PushHandlerParams{Config: cfg, Logger: logger, RatingUC: ratingUC})
	f.e = echo.New()
	f.e.POST("/push", f.handler.HandlePush)

	return f
}

func developConfig() *config.Config {
	cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: pubsub.ProviderLocal}}
	cfg.Env.Env = config.EnvLocal

	return cfg
}

func pushBody(t *testing.T, event *service.RatingAggregateEvent, attributes map[string]string) string {
	t.Helper()

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var msg pubsub.PushMessage
	msg.Subscription = "projects/local/subscriptions/rating-aggregate-sub"
	msg.Message.MessageID = "msg-1"
	msg.Message.Data = base64.StdEncoding.EncodeToString(data)
	msg.Message.Attributes = attributes

	body, err := json.Marshal(msg)
	require.NoError(t, err)

	return string(body)
}

func (f *pushFixture) post(body, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}

	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	return rec
}

func serviceEvent(parentID string) *service.RatingAggregateEvent {
	avg := 4

	return &service.RatingAggregateEvent{
		RequestID:  "req-7",
		TargetKind: string(entity.RatingTargetService),
		TargetID:   "42",
		ParentID:   parentID,
		RatingAvg:  &avg,
		OccurredAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestHandlePush_PropagatesServiceAverageToIner(t *testing.T) {
	f := newPushFixture(t, developConfig())
	inerID := uuid.New()
	target := entity.InerTarget(inerID)
	avg := 3.5
	rounded := 4

	f.aggregates.On("Average", mock.Anything, target).Return(&avg, nil).Once()
	f.aggregates.On("SetRatingAvg", mock.Anything, target, &rounded).Return(true, nil).Once()
	f.accounts.On("FindByID", mock.Anything, entity.AccountKindIner, inerID).
		Return(&entity.Account{ID: inerID, Kind: entity.AccountKindIner, RatingAvg: &rounded}, nil).Once()

	rec := f.post(pushBody(t, serviceEvent(inerID.String()), nil), "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlePush_AccountEventsAreAcked(t *testing.T) {
	f := newPushFixture(t, developConfig())

	for _, kind := range []entity.RatingTargetKind{entity.RatingTargetIner, entity.RatingTargetUsuario} {
		event := &service.RatingAggregateEvent{TargetKind: string(kind), TargetID: uuid.NewString()}

		rec := f.post(pushBody(t, event, nil), "")

		assert.Equal(t, http.StatusOK, rec.Code, kind)
	}
	f.aggregates.AssertNotCalled(t, "Average", mock.Anything, mock.Anything)
}

func TestHandlePush_ServiceEventWithoutParentIsAcked(t *testing.T) {
	f := newPushFixture(t, developConfig())

	rec := f.post(pushBody(t, serviceEvent(""), nil), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	f.aggregates.AssertNotCalled(t, "Average", mock.Anything, mock.Anything)
}

func TestHandlePush_InvalidParentIsNotRetried(t *testing.T) {
	f := newPushFixture(t, developConfig())

	rec := f.post(pushBody(t, serviceEvent("not-a-uuid"), nil), "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlePush_MissingInerIsAcked(t *testing.T) {
	f := newPushFixture(t, developConfig())
	inerID := uuid.New()
	target := entity.InerTarget(inerID)

	f.aggregates.On("Average", mock.Anything, target).Return(nil, nil).Once()
	f.aggregates.On("SetRatingAvg", mock.Anything, target, (*int)(nil)).Return(false, nil).Once()

	rec := f.post(pushBody(t, serviceEvent(inerID.String()), nil), "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlePush_DatabaseFailureIsRetried(t *testing.T) {
	f := newPushFixture(t, developConfig())
	inerID := uuid.New()

	f.aggregates.On("Average", mock.Anything, entity.InerTarget(inerID)).
		Return(nil, domainerrors.NewDatabaseExecuteError(errors.New("connection refused"), "failed to compute rating average")).Once()

	rec := f.post(pushBody(t, serviceEvent(inerID.String()), nil), "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlePush_MalformedMessages(t *testing.T) {
	f := newPushFixture(t, developConfig())

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "{"},
		{name: "data not base64", body: `{"message":{"data":"%%%","messageId":"1"}}`},
		{name: "data not an event", body: `{"message":{"data":"` + base64.StdEncoding.EncodeToString([]byte("[1,2]")) + `","messageId":"1"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.post(tt.body, "")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandlePush_VerifiesGoogleToken(t *testing.T) {
	cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: pubsub.ProviderGoogle}}
	cfg.Env.Env = "production"

	f := newPushFixture(t, cfg)
	require.True(t, f.handler.verifyPushAuth)

	var gotAudience string
	f.handler.validateToken = func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		gotAudience = audience
		switch token {
		case "good":
			return &idtoken.Payload{Issuer: "https://accounts.google.com", Claims: map[string]any{"email_verified": true}}, nil
		case "foreign":
			return &idtoken.Payload{Issuer: "https://evil.example.com"}, nil
		case "unverified":
			return &idtoken.Payload{Issuer: "accounts.google.com", Claims: map[string]any{"email_verified": false}}, nil
		default:
			return nil, errors.New("signature mismatch")
		}
	}

	body := pushBody(t, &service.RatingAggregateEvent{TargetKind: "usuario", TargetID: uuid.NewString()}, nil)

	assert.Equal(t, http.StatusUnauthorized, f.post(body, "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.post(body, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, f.post(body, "Bearer forged").Code)
	assert.Equal(t, http.StatusUnauthorized, f.post(body, "Bearer foreign").Code)
	assert.Equal(t, http.StatusUnauthorized, f.post(body, "Bearer unverified").Code)
	assert.Equal(t, http.StatusOK, f.post(body, "Bearer good").Code)
	assert.Equal(t, "http://example.com/push", gotAudience)
}

func TestNewPushHandler_SkipsTokenCheckInDevelopment(t *testing.T) {
	cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: pubsub.ProviderGoogle}}
	cfg.Env.Env = config.EnvDevelop

	h := NewPushHandler(PushHandlerParams{Config: cfg, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	assert.False(t, h.verifyPushAuth)
}

func TestExtractRequestID(t *testing.T) {
	ctxWithID := deliverycontext.WithRequestID(context.Background(), "from-header")

	msg := &pubsub.PushMessage{}
	msg.Message.Attributes = map[string]string{"request_id": "from-attributes"}
	assert.Equal(t, "from-attributes", extractRequestID(ctxWithID, msg, &service.RatingAggregateEvent{RequestID: "from-payload"}))

	empty := &pubsub.PushMessage{}
	assert.Equal(t, "from-payload", extractRequestID(ctxWithID, empty, &service.RatingAggregateEvent{RequestID: "from-payload"}))
	assert.Equal(t, "from-header", extractRequestID(ctxWithID, empty, &service.RatingAggregateEvent{}))

	generated := extractRequestID(context.Background(), empty, &service.RatingAggregateEvent{})
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
}

func TestPushHandler_Audience(t *testing.T) {
	h := &PushHandler{}

	plain := httptest.NewRequest(http.MethodPost, "http://worker.internal/push", nil)
	assert.Equal(t, "http://worker.internal/push", h.audience(plain))

	forwarded := httptest.NewRequest(http.MethodPost, "http://iner-worker.example.com/push", nil)
	forwarded.Header.Set(echo.HeaderXForwardedProto, "https")
	assert.Equal(t, "https://iner-worker.example.com/push", h.audience(forwarded))

	forwarded.Header.Set(echo.HeaderXForwardedProto, "gopher")
	assert.Equal(t, "http://iner-worker.example.com/push", h.audience(forwarded))

	configured := &PushHandler{pushAudience: "https://push.example.com/push"}
	assert.Equal(t, "https://push.example.com/push", configured.audience(plain))
}

func TestHandlePush_ValidatesAgainstConfiguredAudience(t *testing.T) {
	cfg := &config.Config{PubSub: &config.PubSubConfig{
		Provider:     pubsub.ProviderGoogle,
		PushAudience: "https://iner-worker.example.com/push",
	}}
	cfg.Env.Env = "production"

	f := newPushFixture(t, cfg)
	f.handler.validateToken = func(_ context.Context, _, audience string) (*idtoken.Payload, error) {
		if audience != "https://iner-worker.example.com/push" {
			return nil, errors.Errorf("audience mismatch: %s", audience)
		}

		return &idtoken.Payload{Issuer: "accounts.google.com"}, nil
	}

	body := pushBody(t, &service.RatingAggregateEvent{TargetKind: "usuario", TargetID: uuid.NewString()}, nil)

	assert.Equal(t, http.StatusOK, f.post(body, "Bearer good").Code)
}
