package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/natours/natours-backend/internal/controller"
	"github.com/natours/natours-backend/internal/middleware"
	"github.com/natours/natours-backend/internal/models"
	"github.com/natours/natours-backend/pkg/utils"
)

type ReviewHandler struct {
	reviewController *controller.ReviewController
	validator        *utils.Validator
}

func NewReviewHandler(reviewController *controller.ReviewController, validator *utils.Validator) *ReviewHandler {
	return &ReviewHandler{
		reviewController: reviewController,
		validator:        validator,
	}
}

// GetAllReviews serves both /reviews and /tours/:tourId/reviews.
func (h *ReviewHandler) GetAllReviews(c *fiber.Ctx) error {
	var filter models.ReviewFilter
	if c.Params("tourId") != "" {
		tourID, err := paramID(c, "tourId")
		if err != nil {
			return err
		}
		filter.TourID = tourID
	}
	if userID := c.QueryInt("user"); userID > 0 {
		filter.UserID = uint(userID)
	}

	reviews, err := h.reviewController.GetAllReviews(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(models.ListResponse(reviews, len(reviews)))
}

func (h *ReviewHandler) GetReview(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	review, err := h.reviewController.GetReview(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse(review, ""))
}

// CreateReview takes the tour from the nested route when present and the
// author from the session, never from the body.
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	me, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}

	var req models.ReviewRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	if c.Params("tourId") != "" {
		tourID, err := paramID(c, "tourId")
		if err != nil {
			return err
		}
		req.TourID = tourID
	}

	review, err := h.reviewController.CreateReview(c.UserContext(), me, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(review, "Review created"))
}

func (h *ReviewHandler) UpdateReview(c *fiber.Ctx) error {
	me, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateReviewRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	review, err := h.reviewController.UpdateReview(c.UserContext(), me, id, req)
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse(review, "Review updated"))
}

func (h *ReviewHandler) DeleteReview(c *fiber.Ctx) error {
	me, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.reviewController.DeleteReview(c.UserContext(), me, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
