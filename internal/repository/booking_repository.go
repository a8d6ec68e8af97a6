package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/natours/natours-backend/internal/models"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Tour", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "price") }).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "email") })
}

func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return translate(r.db.WithContext(ctx).Omit("Tour", "User").Create(booking).Error)
}

func (r *BookingRepository) Save(ctx context.Context, booking *models.Booking) error {
	return translate(r.db.WithContext(ctx).Omit("Tour", "User").Save(booking).Error)
}

func (r *BookingRepository) GetByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.withRelations(ctx).First(&booking, id).Error; err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

func (r *BookingRepository) GetByPaymentRef(ctx context.Context, ref string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Where("payment_ref = ?", ref).First(&booking).Error; err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

func (r *BookingRepository) List(ctx context.Context) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := r.withRelations(ctx).Order("created_at DESC").Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Booking{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
