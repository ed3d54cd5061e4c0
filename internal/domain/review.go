package domain

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer review. CakeID is nil for reviews of the bakery as a whole.
type Review struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CakeID    *uuid.UUID `json:"cake_id,omitempty" db:"cake_id"`
	Author    string     `json:"author" db:"author" validate:"required"`
	Rating    int        `json:"rating" db:"rating" validate:"required,gte=1,lte=5"`
	Body      string     `json:"body" db:"body" validate:"required"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// ReviewStats is the aggregate review summary for a product, optionally
// carrying the most recent reviews to publish alongside it.
type ReviewStats struct {
	Count         int      `json:"count" validate:"gte=0"`
	AverageRating float64  `json:"averageRating" validate:"gte=0,lte=5"`
	Recent        []Review `json:"recent,omitempty"`
}
