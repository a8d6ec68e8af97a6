package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/natours/natours-backend/internal/apperror"
	"github.com/natours/natours-backend/internal/models"
	"github.com/natours/natours-backend/internal/repository"
)

type ReviewService struct {
	reviews    ReviewRepository
	tours      TourRepository
	aggregator *RatingAggregator
	logger     *zap.Logger
}

func NewReviewService(reviews ReviewRepository, tours TourRepository, aggregator *RatingAggregator, log *zap.Logger) *ReviewService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReviewService{
		reviews:    reviews,
		tours:      tours,
		aggregator: aggregator,
		logger:     log.Named("reviews"),
	}
}

func (s *ReviewService) List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, error) {
	return s.reviews.List(ctx, filter)
}

func (s *ReviewService) Get(ctx context.Context, id uint) (*models.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "No review found with that ID")
	}
	return review, nil
}

// Create stores a review by author for the tour and refreshes the tour's
// rating aggregate.
func (s *ReviewService) Create(ctx context.Context, author *models.User, req models.ReviewRequest) (*models.Review, error) {
	if req.TourID == 0 {
		return nil, apperror.New(apperror.ErrBadRequest, "Review must belong to a tour.")
	}
	if _, err := s.tours.GetByID(ctx, req.TourID); err != nil {
		return nil, notFound(err, "No tour found with that ID")
	}

	review := &models.Review{
		Review: strings.TrimSpace(req.Review),
		Rating: models.RoundRating(req.Rating),
		TourID: req.TourID,
		UserID: author.ID,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.New(apperror.ErrConflict, "You have already reviewed this tour.")
		}
		return nil, err
	}

	s.recalculate(ctx, review.TourID)
	return review, nil
}

// Update edits text or rating. The tour of a review never changes, so the
// aggregate of the pre-image's tour is the one refreshed.
func (s *ReviewService) Update(ctx context.Context, actor *models.User, id uint, req models.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	tourID := review.TourID

	if req.Review != nil {
		review.Review = strings.TrimSpace(*req.Review)
	}
	if req.Rating != nil {
		review.Rating = models.RoundRating(*req.Rating)
	}
	review.Tour = nil
	review.User = nil

	if err := s.reviews.Save(ctx, review); err != nil {
		return nil, err
	}

	s.recalculate(ctx, tourID)
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor *models.User, id uint) error {
	review, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}
	tourID := review.TourID

	if err := s.reviews.Delete(ctx, id); err != nil {
		return notFound(err, "No review found with that ID")
	}

	s.recalculate(ctx, tourID)
	return nil
}

// recalculate refreshes the tour's aggregate after a committed review write.
// Failures are logged; the next write recomputes from scratch.
func (s *ReviewService) recalculate(ctx context.Context, tourID uint) {
	if _, err := s.aggregator.Recalculate(ctx, tourID); err != nil {
		s.logger.Error("rating aggregate not refreshed", zap.Uint("tour_id", tourID), zap.Error(err))
	}
}

// owned loads a review that actor may modify: their own, or any for admins.
func (s *ReviewService) owned(ctx context.Context, actor *models.User, id uint) (*models.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "No review found with that ID")
	}
	if review.UserID != actor.ID && !actor.HasRole(models.RoleAdmin) {
		return nil, apperror.New(apperror.ErrForbidden, "You can only change your own reviews")
	}
	return review, nil
}

// notFound maps a repository miss onto a NotFound app error with message.
func notFound(err error, message string) error {
	if isNotFound(err) {
		return apperror.New(apperror.ErrNotFound, message)
	}
	return err
}
