package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/natours/natours-backend/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// active scopes every lookup to users that have not been deactivated.
func (r *UserRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("active = ?", true)
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

// Save writes every column of user without any validation.
func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	return translate(r.db.WithContext(ctx).Save(user).Error)
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.active(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.active(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) GetByCheckEmailToken(ctx context.Context, hash string) (*models.User, error) {
	var user models.User
	if err := r.active(ctx).Where("check_email_token = ?", hash).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetByResetToken finds the user holding hash whose reset window is still open at now.
func (r *UserRepository) GetByResetToken(ctx context.Context, hash string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.active(ctx).
		Where("password_reset_token = ? AND password_reset_expire > ?", hash, now).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", models.NormalizeEmail(email)).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.active(ctx).Order("id").Find(&users).Error
	return users, err
}

func (r *UserRepository) Deactivate(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
