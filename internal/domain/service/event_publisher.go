package service

import (
	"context"
	"time"
)

// RatingAggregateEvent announces that a target's rating_avg was recomputed.
type RatingAggregateEvent struct {
	RequestID  string    `json:"request_id,omitempty"`
	TargetKind string    `json:"target_kind"`
	TargetID   string    `json:"target_id"`
	// ParentID is the owning iner of a servicio target, empty for account targets.
	ParentID   string    `json:"parent_id,omitempty"`
	Average    *float64  `json:"average"`
	RatingAvg  *int      `json:"rating_avg"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	PublishRatingEvent(ctx context.Context, event *RatingAggregateEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
