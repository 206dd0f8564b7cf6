package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"iner/config"
	"iner/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEvent() *service.RatingAggregateEvent {
	avg := 3.5
	rounded := 4

	return &service.RatingAggregateEvent{
		RequestID:  "req-1",
		TargetKind: "servicio",
		TargetID:   "7",
		Average:    &avg,
		RatingAvg:  &rounded,
		OccurredAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestLocalHTTPPublisher_PushFormat(t *testing.T) {
	var received PushMessage
	var requestID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, discardLogger())
	require.NoError(t, publisher.PublishRatingEvent(context.Background(), testEvent()))

	assert.Equal(t, "req-1", requestID)
	assert.NotEmpty(t, received.Message.MessageID)
	assert.Equal(t, RatingAggregateEventType, received.Message.Attributes["event_type"])
	assert.Equal(t, "servicio", received.Message.Attributes["target_kind"])

	raw, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)

	var decoded service.RatingAggregateEvent
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "7", decoded.TargetID)
	require.NotNil(t, decoded.RatingAvg)
	assert.Equal(t, 4, *decoded.RatingAvg)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, discardLogger())
	err := publisher.PublishRatingEvent(context.Background(), testEvent())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestNewEventPublisher_SelectsProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.PubSubConfig
		wantErr bool
		isNoop  bool
	}{
		{name: "not configured", cfg: nil, isNoop: true},
		{name: "noop", cfg: &config.PubSubConfig{Provider: ProviderNoop}, isNoop: true},
		{name: "local", cfg: &config.PubSubConfig{Provider: ProviderLocal, LocalEndpoint: "http://localhost:1"}},
		{name: "local without endpoint", cfg: &config.PubSubConfig{Provider: ProviderLocal}, wantErr: true},
		{name: "google without project", cfg: &config.PubSubConfig{Provider: ProviderGoogle, TopicID: "t"}, wantErr: true},
		{name: "google without topic", cfg: &config.PubSubConfig{Provider: ProviderGoogle, ProjectID: "p"}, wantErr: true},
		{name: "unknown", cfg: &config.PubSubConfig{Provider: "kafka"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := fxtest.NewLifecycle(t)
			publisher, err := NewEventPublisher(PublisherParams{
				Lc:     lc,
				Ctx:    context.Background(),
				Config: &config.Config{PubSub: tt.cfg},
				Logger: discardLogger(),
			})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, publisher)

				return
			}

			require.NoError(t, err)
			_, noop := publisher.(*noopPublisher)
			assert.Equal(t, tt.isNoop, noop)
			if noop {
				assert.NoError(t, publisher.PublishRatingEvent(context.Background(), testEvent()))
			}
			assert.NoError(t, publisher.Close())
		})
	}
}
