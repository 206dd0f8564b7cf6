package entity

import "github.com/google/uuid"

// Service is the slice of a provider's service listing that rating aggregation touches.
type Service struct {
	ID        int64
	InerID    uuid.UUID
	Title     string
	RatingAvg *int
}
