package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/natours/natours-backend/internal/apperror"
	"github.com/natours/natours-backend/internal/models"
	"github.com/natours/natours-backend/internal/repository"
	"github.com/natours/natours-backend/pkg/utils"
)

const (
	topToursLimit  = 5
	topToursSort   = "-ratingsAverage,price"
	statsMinRating = 4.5
)

type TourService struct {
	tours TourRepository
}

func NewTourService(tours TourRepository) *TourService {
	return &TourService{tours: tours}
}

func (s *TourService) List(ctx context.Context, q models.TourQuery) ([]models.Tour, error) {
	return s.tours.List(ctx, q)
}

// TopCheap lists the five best rated tours, cheapest first on ties.
func (s *TourService) TopCheap(ctx context.Context) ([]models.Tour, error) {
	return s.tours.List(ctx, models.TourQuery{Sort: topToursSort, Limit: topToursLimit})
}

func (s *TourService) Stats(ctx context.Context) ([]models.TourStats, error) {
	return s.tours.Stats(ctx, statsMinRating)
}

func (s *TourService) Get(ctx context.Context, id uint) (*models.Tour, error) {
	tour, err := s.tours.GetWithReviews(ctx, id)
	if err != nil {
		return nil, notFound(err, "No tour found with that ID")
	}
	return tour, nil
}

func (s *TourService) Create(ctx context.Context, req models.TourRequest) (*models.Tour, error) {
	tour := &models.Tour{
		Name:           req.Name,
		Slug:           utils.Slugify(req.Name),
		Duration:       req.Duration,
		MaxGroupSize:   req.MaxGroupSize,
		Difficulty:     req.Difficulty,
		RatingsAverage: models.DefaultRatingsAverage,
		Price:          req.Price,
		PriceDiscount:  req.PriceDiscount,
		Summary:        req.Summary,
		Description:    req.Description,
		ImageCover:     req.ImageCover,
		StartAddress:   req.StartAddress,
		StartDates:     startDates(req.StartDates),
	}
	if req.StartLocation != nil {
		tour.StartLocation = *req.StartLocation
	}
	if err := s.tours.Create(ctx, tour); err != nil {
		return nil, duplicateTour(err)
	}
	return tour, nil
}

func (s *TourService) Update(ctx context.Context, id uint, req models.UpdateTourRequest) (*models.Tour, error) {
	tour, err := s.tours.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "No tour found with that ID")
	}

	if req.Name != nil {
		tour.Name = *req.Name
		tour.Slug = utils.Slugify(*req.Name)
	}
	if req.Duration != nil {
		tour.Duration = *req.Duration
	}
	if req.MaxGroupSize != nil {
		tour.MaxGroupSize = *req.MaxGroupSize
	}
	if req.Difficulty != nil {
		tour.Difficulty = *req.Difficulty
	}
	if req.Price != nil {
		tour.Price = *req.Price
	}
	if req.PriceDiscount != nil {
		tour.PriceDiscount = *req.PriceDiscount
	}
	if req.Summary != nil {
		tour.Summary = *req.Summary
	}
	if req.Description != nil {
		tour.Description = *req.Description
	}
	if req.ImageCover != nil {
		tour.ImageCover = *req.ImageCover
	}
	if req.StartLocation != nil {
		tour.StartLocation = *req.StartLocation
	}
	if req.StartAddress != nil {
		tour.StartAddress = *req.StartAddress
	}

	if tour.PriceDiscount >= tour.Price {
		return nil, apperror.New(apperror.ErrBadRequest, "Discount price should be below the regular price")
	}

	if err := s.tours.Save(ctx, tour); err != nil {
		return nil, duplicateTour(err)
	}
	if req.StartDates != nil {
		if err := s.tours.ReplaceStartDates(ctx, tour.ID, *req.StartDates); err != nil {
			return nil, err
		}
		tour.StartDates = startDates(*req.StartDates)
	}
	return tour, nil
}

func startDates(dates []time.Time) []models.TourStartDate {
	rows := make([]models.TourStartDate, 0, len(dates))
	for _, d := range dates {
		rows = append(rows, models.TourStartDate{StartsAt: d.UTC()})
	}
	return rows
}

// MonthlyPlan reports the departures of year grouped by month.
func (s *TourService) MonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlan, error) {
	if year < 1 || year > 9999 {
		return nil, apperror.New(apperror.ErrBadRequest, "Please provide a valid year")
	}
	return s.tours.MonthlyPlan(ctx, year)
}

// Within lists the tours starting within distance of latlng, measured in unit.
func (s *TourService) Within(ctx context.Context, distance float64, latlng string, unit models.DistanceUnit) ([]models.Tour, error) {
	if distance <= 0 {
		return nil, apperror.New(apperror.ErrBadRequest, "Please provide a positive distance")
	}
	center, err := parseLatLng(latlng)
	if err != nil {
		return nil, err
	}
	return s.tours.Within(ctx, center, distance, unit.EarthRadius())
}

// Distances lists every tour with its distance from latlng in unit.
func (s *TourService) Distances(ctx context.Context, latlng string, unit models.DistanceUnit) ([]models.TourDistance, error) {
	center, err := parseLatLng(latlng)
	if err != nil {
		return nil, err
	}
	return s.tours.Distances(ctx, center, unit.EarthRadius())
}

// parseLatLng reads a "lat,lng" pair.
func parseLatLng(latlng string) (models.GeoPoint, error) {
	invalid := apperror.New(apperror.ErrBadRequest, "Please provide latitude and longitude in the format lat,lng.")

	parts := strings.Split(latlng, ",")
	if len(parts) != 2 {
		return models.GeoPoint{}, invalid
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || lat < -90 || lat > 90 {
		return models.GeoPoint{}, invalid
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || lng < -180 || lng > 180 {
		return models.GeoPoint{}, invalid
	}
	return models.GeoPoint{Lat: lat, Lng: lng}, nil
}

func (s *TourService) Delete(ctx context.Context, id uint) error {
	return notFound(s.tours.Delete(ctx, id), "No tour found with that ID")
}

func duplicateTour(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperror.New(apperror.ErrConflict, "A tour with that name already exists")
	}
	return err
}
