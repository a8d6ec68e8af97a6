package controller

import (
	"context"

	"github.com/natours/natours-backend/internal/models"
	"github.com/natours/natours-backend/internal/service"
)

type TourController struct {
	tourService *service.TourService
}

func NewTourController(tourService *service.TourService) *TourController {
	return &TourController{
		tourService: tourService,
	}
}

func (c *TourController) GetAllTours(ctx context.Context, q models.TourQuery) ([]models.Tour, error) {
	return c.tourService.List(ctx, q)
}

func (c *TourController) TopCheap(ctx context.Context) ([]models.Tour, error) {
	return c.tourService.TopCheap(ctx)
}

func (c *TourController) GetTourStats(ctx context.Context) ([]models.TourStats, error) {
	return c.tourService.Stats(ctx)
}

func (c *TourController) GetTour(ctx context.Context, id uint) (*models.Tour, error) {
	return c.tourService.Get(ctx, id)
}

func (c *TourController) CreateTour(ctx context.Context, req models.TourRequest) (*models.Tour, error) {
	return c.tourService.Create(ctx, req)
}

func (c *TourController) UpdateTour(ctx context.Context, id uint, req models.UpdateTourRequest) (*models.Tour, error) {
	return c.tourService.Update(ctx, id, req)
}

func (c *TourController) DeleteTour(ctx context.Context, id uint) error {
	return c.tourService.Delete(ctx, id)
}

func (c *TourController) GetMonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlan, error) {
	return c.tourService.MonthlyPlan(ctx, year)
}

func (c *TourController) GetToursWithin(ctx context.Context, distance float64, latlng string, unit models.DistanceUnit) ([]models.Tour, error) {
	return c.tourService.Within(ctx, distance, latlng, unit)
}

func (c *TourController) GetDistances(ctx context.Context, latlng string, unit models.DistanceUnit) ([]models.TourDistance, error) {
	return c.tourService.Distances(ctx, latlng, unit)
}
