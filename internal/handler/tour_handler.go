package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/natours/natours-backend/internal/apperror"
	"github.com/natours/natours-backend/internal/controller"
	"github.com/natours/natours-backend/internal/models"
	"github.com/natours/natours-backend/pkg/utils"
)

type TourHandler struct {
	tourController *controller.TourController
	validator      *utils.Validator
}

func NewTourHandler(tourController *controller.TourController, validator *utils.Validator) *TourHandler {
	return &TourHandler{
		tourController: tourController,
		validator:      validator,
	}
}

func (h *TourHandler) GetAllTours(c *fiber.Ctx) error {
	var q models.TourQuery
	if err := c.QueryParser(&q); err != nil {
		return apperror.Wrap(apperror.ErrBadRequest, "Invalid query parameters", err)
	}

	tours, err := h.tourController.GetAllTours(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(models.ListResponse(tours, len(tours)))
}

func (h *TourHandler) TopCheap(c *fiber.Ctx) error {
	tours, err := h.tourController.TopCheap(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(models.ListResponse(tours, len(tours)))
}

func (h *TourHandler) GetTourStats(c *fiber.Ctx) error {
	stats, err := h.tourController.GetTourStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse(stats, ""))
}

func (h *TourHandler) GetMonthlyPlan(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return apperror.New(apperror.ErrBadRequest, "Please provide a valid year")
	}

	plan, err := h.tourController.GetMonthlyPlan(c.UserContext(), year)
	if err != nil {
		return err
	}
	return c.JSON(models.ListResponse(plan, len(plan)))
}

// GetToursWithin serves /tours-within/:distance/center/:latlng/unit/:unit.
func (h *TourHandler) GetToursWithin(c *fiber.Ctx) error {
	distance, err := strconv.ParseFloat(c.Params("distance"), 64)
	if err != nil {
		return apperror.New(apperror.ErrBadRequest, "Please provide a positive distance")
	}

	tours, err := h.tourController.GetToursWithin(c.UserContext(), distance, c.Params("latlng"), models.DistanceUnit(c.Params("unit")))
	if err != nil {
		return err
	}
	return c.JSON(models.ListResponse(tours, len(tours)))
}

func (h *TourHandler) GetDistances(c *fiber.Ctx) error {
	distances, err := h.tourController.GetDistances(c.UserContext(), c.Params("latlng"), models.DistanceUnit(c.Params("unit")))
	if err != nil {
		return err
	}
	return c.JSON(models.ListResponse(distances, len(distances)))
}

func (h *TourHandler) GetTour(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	tour, err := h.tourController.GetTour(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse(tour, ""))
}

func (h *TourHandler) CreateTour(c *fiber.Ctx) error {
	var req models.TourRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	tour, err := h.tourController.CreateTour(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(tour, "Tour created"))
}

func (h *TourHandler) UpdateTour(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateTourRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	tour, err := h.tourController.UpdateTour(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse(tour, "Tour updated"))
}

func (h *TourHandler) DeleteTour(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.tourController.DeleteTour(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
