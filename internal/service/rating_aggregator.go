package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/natours/natours-backend/internal/models"
)

// RatingAggregator re-derives a tour's rating columns from its reviews.
// Every call recomputes from scratch, so concurrent runs converge on the
// last writer.
type RatingAggregator struct {
	reviews ReviewRepository
	tours   TourRepository
	logger  *zap.Logger
}

func NewRatingAggregator(reviews ReviewRepository, tours TourRepository, log *zap.Logger) *RatingAggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &RatingAggregator{
		reviews: reviews,
		tours:   tours,
		logger:  log.Named("ratings"),
	}
}

func (a *RatingAggregator) Recalculate(ctx context.Context, tourID uint) (models.RatingStats, error) {
	stats, err := a.reviews.RatingStats(ctx, tourID)
	if err != nil {
		return models.RatingStats{}, fmt.Errorf("rating stats for tour %d: %w", tourID, err)
	}

	if stats.Quantity == 0 {
		stats.Average = models.DefaultRatingsAverage
	}
	stats.Average = models.RoundRating(stats.Average)

	if err := a.tours.UpdateRatings(ctx, tourID, stats.Quantity, stats.Average); err != nil {
		return models.RatingStats{}, fmt.Errorf("update ratings for tour %d: %w", tourID, err)
	}

	a.logger.Debug("ratings recalculated",
		zap.Uint("tour_id", tourID),
		zap.Int64("quantity", stats.Quantity),
		zap.Float64("average", stats.Average))
	return stats, nil
}
