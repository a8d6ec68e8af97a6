package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/natours/natours-backend/internal/models"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// withRelations preloads the tour name and the author's public fields.
func (r *ReviewRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Tour", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "photo") })
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	return translate(r.db.WithContext(ctx).Omit("Tour", "User").Create(review).Error)
}

func (r *ReviewRepository) Save(ctx context.Context, review *models.Review) error {
	return translate(r.db.WithContext(ctx).Omit("Tour", "User").Save(review).Error)
}

func (r *ReviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.withRelations(ctx).First(&review, id).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *ReviewRepository) List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, error) {
	db := r.withRelations(ctx)
	if filter.TourID != 0 {
		db = db.Where("tour_id = ?", filter.TourID)
	}
	if filter.UserID != 0 {
		db = db.Where("user_id = ?", filter.UserID)
	}

	reviews := []models.Review{}
	err := db.Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RatingStats counts and averages the ratings of one tour.
func (r *ReviewRepository) RatingStats(ctx context.Context, tourID uint) (models.RatingStats, error) {
	var row struct {
		Quantity int64
		Average  float64
	}
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("count(*) AS quantity, coalesce(avg(rating), 0) AS average").
		Where("tour_id = ?", tourID).
		Scan(&row).Error
	if err != nil {
		return models.RatingStats{}, err
	}
	return models.RatingStats{Quantity: row.Quantity, Average: row.Average}, nil
}
