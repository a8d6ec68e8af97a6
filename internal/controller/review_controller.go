package controller

import (
	"context"

	"github.com/natours/natours-backend/internal/models"
	"github.com/natours/natours-backend/internal/service"
)

type ReviewController struct {
	reviewService *service.ReviewService
}

func NewReviewController(reviewService *service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

func (c *ReviewController) GetAllReviews(ctx context.Context, filter models.ReviewFilter) ([]models.Review, error) {
	return c.reviewService.List(ctx, filter)
}

func (c *ReviewController) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	return c.reviewService.Get(ctx, id)
}

func (c *ReviewController) CreateReview(ctx context.Context, author *models.User, req models.ReviewRequest) (*models.Review, error) {
	return c.reviewService.Create(ctx, author, req)
}

func (c *ReviewController) UpdateReview(ctx context.Context, actor *models.User, id uint, req models.UpdateReviewRequest) (*models.Review, error) {
	return c.reviewService.Update(ctx, actor, id, req)
}

func (c *ReviewController) DeleteReview(ctx context.Context, actor *models.User, id uint) error {
	return c.reviewService.Delete(ctx, actor, id)
}
