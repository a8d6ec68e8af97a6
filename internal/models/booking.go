package models

import "time"

type Booking struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	TourID     uint      `json:"tour_id" gorm:"not null;index"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	Price      float64   `json:"price" gorm:"not null"`
	Paid       bool      `json:"paid" gorm:"not null;default:true"`
	PaymentRef string    `json:"payment_ref" gorm:"uniqueIndex;not null"`
	Tour       *Tour     `json:"tour,omitempty"`
	User       *User     `json:"user,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type BookingRequest struct {
	TourID     uint    `json:"tour_id" validate:"required"`
	UserID     uint    `json:"user_id" validate:"required"`
	Price      float64 `json:"price" validate:"required,gt=0"`
	Paid       *bool   `json:"paid"`
	PaymentRef string  `json:"payment_ref" validate:"required"`
}

type UpdateBookingRequest struct {
	Price *float64 `json:"price" validate:"omitempty,gt=0"`
	Paid  *bool    `json:"paid"`
}
