package models

import (
	"time"
)

type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyMedium    Difficulty = "medium"
	DifficultyDifficult Difficulty = "difficult"
)

// DefaultRatingsAverage is shown for tours nobody has reviewed yet.
const DefaultRatingsAverage = 4.5

type Tour struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	Name            string          `json:"name" gorm:"uniqueIndex;not null"`
	Slug            string          `json:"slug" gorm:"index"`
	Duration        int             `json:"duration" gorm:"not null"`
	MaxGroupSize    int             `json:"max_group_size" gorm:"not null"`
	Difficulty      Difficulty      `json:"difficulty" gorm:"type:varchar(20);not null"`
	RatingsAverage  float64         `json:"ratings_average" gorm:"not null;default:4.5"`
	RatingsQuantity int             `json:"ratings_quantity" gorm:"not null;default:0"`
	Price           float64         `json:"price" gorm:"not null"`
	PriceDiscount   float64         `json:"price_discount"`
	Summary         string          `json:"summary"`
	Description     string          `json:"description"`
	ImageCover      string          `json:"image_cover"`
	StartLocation   GeoPoint        `json:"start_location" gorm:"embedded;embeddedPrefix:start_"`
	StartAddress    string          `json:"start_address"`
	StartDates      []TourStartDate `json:"start_dates,omitempty" gorm:"foreignKey:TourID"`
	Reviews         []Review        `json:"reviews,omitempty" gorm:"foreignKey:TourID"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// GeoPoint is a WGS84 coordinate in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// TourStartDate is one scheduled departure of a tour.
type TourStartDate struct {
	ID       uint      `json:"-" gorm:"primaryKey"`
	TourID   uint      `json:"-" gorm:"not null;index"`
	StartsAt time.Time `json:"starts_at" gorm:"not null;index"`
}

type TourRequest struct {
	Name          string      `json:"name" validate:"required,min=10,max=40"`
	Duration      int         `json:"duration" validate:"required,gt=0"`
	MaxGroupSize  int         `json:"max_group_size" validate:"required,gt=0"`
	Difficulty    Difficulty  `json:"difficulty" validate:"required,difficulty"`
	Price         float64     `json:"price" validate:"required,gt=0"`
	PriceDiscount float64     `json:"price_discount" validate:"gte=0,ltfield=Price"`
	Summary       string      `json:"summary" validate:"required"`
	Description   string      `json:"description"`
	ImageCover    string      `json:"image_cover"`
	StartLocation *GeoPoint   `json:"start_location" validate:"omitempty"`
	StartAddress  string      `json:"start_address"`
	StartDates    []time.Time `json:"start_dates"`
}

// UpdateTourRequest holds the fields to change. StartDates, when present,
// replaces the whole schedule.
type UpdateTourRequest struct {
	Name          *string      `json:"name" validate:"omitempty,min=10,max=40"`
	Duration      *int         `json:"duration" validate:"omitempty,gt=0"`
	MaxGroupSize  *int         `json:"max_group_size" validate:"omitempty,gt=0"`
	Difficulty    *Difficulty  `json:"difficulty" validate:"omitempty,difficulty"`
	Price         *float64     `json:"price" validate:"omitempty,gt=0"`
	PriceDiscount *float64     `json:"price_discount" validate:"omitempty,gte=0"`
	Summary       *string      `json:"summary"`
	Description   *string      `json:"description"`
	ImageCover    *string      `json:"image_cover"`
	StartLocation *GeoPoint    `json:"start_location" validate:"omitempty"`
	StartAddress  *string      `json:"start_address"`
	StartDates    *[]time.Time `json:"start_dates"`
}

// TourQuery carries the list filters accepted by GET /tours.
type TourQuery struct {
	Difficulty  string  `query:"difficulty"`
	MinPrice    float64 `query:"min_price"`
	MaxPrice    float64 `query:"max_price"`
	MaxDuration int     `query:"max_duration"`
	Sort        string  `query:"sort"`
	Page        int     `query:"page"`
	Limit       int     `query:"limit"`
}

type TourStats struct {
	Difficulty string  `json:"difficulty"`
	NumTours   int64   `json:"num_tours"`
	NumRatings int64   `json:"num_ratings"`
	AvgRating  float64 `json:"avg_rating"`
	AvgPrice   float64 `json:"avg_price"`
	MinPrice   float64 `json:"min_price"`
	MaxPrice   float64 `json:"max_price"`
}

// MonthlyPlan counts the departures of one calendar month.
type MonthlyPlan struct {
	Month         int      `json:"month"`
	NumTourStarts int      `json:"num_tour_starts"`
	Tours         []string `json:"tours"`
}

// DistanceUnit is "mi" or "km".
type DistanceUnit string

const (
	UnitMiles      DistanceUnit = "mi"
	UnitKilometers DistanceUnit = "km"
)

// EarthRadius returns the mean Earth radius in unit; anything but miles is
// taken as kilometres.
func (u DistanceUnit) EarthRadius() float64 {
	if u == UnitMiles {
		return 3963.2
	}
	return 6378.1
}

// TourDistance is a tour's distance from a reference point.
type TourDistance struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}
