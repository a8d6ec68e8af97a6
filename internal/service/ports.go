package service

import (
	"context"
	"time"

	"github.com/natours/natours-backend/internal/models"
	"github.com/natours/natours-backend/pkg/jwt"
	"github.com/natours/natours-backend/pkg/payment"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByCheckEmailToken(ctx context.Context, hash string) (*models.User, error)
	GetByResetToken(ctx context.Context, hash string, now time.Time) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]models.User, error)
	Deactivate(ctx context.Context, id uint) error
}

type TourRepository interface {
	Create(ctx context.Context, tour *models.Tour) error
	Save(ctx context.Context, tour *models.Tour) error
	ReplaceStartDates(ctx context.Context, tourID uint, dates []time.Time) error
	GetByID(ctx context.Context, id uint) (*models.Tour, error)
	GetWithReviews(ctx context.Context, id uint) (*models.Tour, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Tour, error)
	List(ctx context.Context, q models.TourQuery) ([]models.Tour, error)
	UpdateRatings(ctx context.Context, tourID uint, quantity int64, average float64) error
	Stats(ctx context.Context, minRating float64) ([]models.TourStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlan, error)
	Within(ctx context.Context, center models.GeoPoint, distance, radius float64) ([]models.Tour, error)
	Distances(ctx context.Context, center models.GeoPoint, radius float64) ([]models.TourDistance, error)
	Delete(ctx context.Context, id uint) error
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	Save(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, error)
	Delete(ctx context.Context, id uint) error
	RatingStats(ctx context.Context, tourID uint) (models.RatingStats, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	Save(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id uint) (*models.Booking, error)
	GetByPaymentRef(ctx context.Context, ref string) (*models.Booking, error)
	List(ctx context.Context) ([]models.Booking, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Booking, error)
	Delete(ctx context.Context, id uint) error
}

// Mailer delivers the account emails. Errors are returned synchronously so
// callers can roll back pending token state.
type Mailer interface {
	SendWelcomeEmail(ctx context.Context, to, name string) error
	SendVerificationEmail(ctx context.Context, to, name, token string) error
	SendPasswordResetEmail(ctx context.Context, to, name, token string) error
}

type TokenService interface {
	Sign(userID uint) (string, error)
	Verify(token string) (*jwt.Claims, error)
}

type PaymentGateway interface {
	Charge(ctx context.Context, req payment.ChargeRequest) (*payment.Charge, error)
	CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error)
	ParseCheckoutWebhook(payload []byte, signature string) (*payment.CheckoutCompletion, error)
}
