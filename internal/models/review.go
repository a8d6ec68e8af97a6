package models

import (
	"math"
	"time"
)

type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Review    string    `json:"review" gorm:"type:text;not null"`
	Rating    float64   `json:"rating" gorm:"not null"`
	TourID    uint      `json:"tour_id" gorm:"not null;uniqueIndex:idx_reviews_tour_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_reviews_tour_user"`
	Tour      *Tour     `json:"tour,omitempty"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoundRating rounds to one decimal place, as ratings are stored.
func RoundRating(r float64) float64 {
	return math.Round(r*10) / 10
}

type ReviewRequest struct {
	Review string  `json:"review" validate:"required"`
	Rating float64 `json:"rating" validate:"required,gte=1,lte=5"`
	TourID uint    `json:"tour_id"`
}

type UpdateReviewRequest struct {
	Review *string  `json:"review" validate:"omitempty,min=1"`
	Rating *float64 `json:"rating" validate:"omitempty,gte=1,lte=5"`
}

type ReviewFilter struct {
	TourID uint
	UserID uint
}

// RatingStats is the aggregate over all reviews of a tour.
type RatingStats struct {
	Quantity int64
	Average  float64
}
