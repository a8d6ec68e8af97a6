package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/natours/natours-backend/internal/apperror"
	"github.com/natours/natours-backend/internal/models"
	"github.com/natours/natours-backend/internal/repository"
	"github.com/natours/natours-backend/pkg/payment"
)

type BookingService struct {
	bookings    BookingRepository
	tours       TourRepository
	users       UserRepository
	gateway     PaymentGateway
	frontendURL string
	currency    string
	logger      *zap.Logger
}

func NewBookingService(bookings BookingRepository, tours TourRepository, users UserRepository, gateway PaymentGateway, frontendURL, currency string, log *zap.Logger) *BookingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingService{
		bookings:    bookings,
		tours:       tours,
		users:       users,
		gateway:     gateway,
		frontendURL: frontendURL,
		currency:    currency,
		logger:      log.Named("bookings"),
	}
}

func toCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

// CreateCheckoutSession opens a hosted Stripe checkout for one seat on a tour.
// The booking itself is written when the completion webhook arrives.
func (s *BookingService) CreateCheckoutSession(ctx context.Context, actor *models.User, tourID uint) (*models.CheckoutSession, error) {
	tour, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		return nil, notFound(err, "No tour found with that ID")
	}

	req := payment.CheckoutRequest{
		CustomerEmail:     actor.Email,
		ClientReferenceID: strconv.FormatUint(uint64(tour.ID), 10),
		Name:              tour.Name + " Tour",
		Description:       tour.Summary,
		AmountCents:       toCents(tour.Price),
		Currency:          s.currency,
		SuccessURL:        s.frontendURL + "/my-tours?alert=booking",
		CancelURL:         fmt.Sprintf("%s/tour/%s", s.frontendURL, tour.Slug),
	}
	if tour.ImageCover != "" {
		req.Images = []string{s.frontendURL + "/img/tours/" + tour.ImageCover}
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, req)
	if err != nil {
		return nil, err
	}
	return &models.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// HandleCheckoutWebhook records the booking of a completed checkout. Stripe
// retries deliveries, so a session already booked is acknowledged silently.
func (s *BookingService) HandleCheckoutWebhook(ctx context.Context, payload []byte, signature string) error {
	completion, err := s.gateway.ParseCheckoutWebhook(payload, signature)
	if err != nil {
		return apperror.Wrap(apperror.ErrBadRequest, "Webhook error", err)
	}
	if completion == nil {
		return nil
	}

	if _, err := s.bookings.GetByPaymentRef(ctx, completion.SessionID); err == nil {
		return nil
	} else if !isNotFound(err) {
		return err
	}

	tourID, err := strconv.ParseUint(completion.ClientReferenceID, 10, 64)
	if err != nil {
		return apperror.Wrap(apperror.ErrBadRequest, "Webhook error: bad client reference", err)
	}
	user, err := s.users.GetByEmail(ctx, completion.CustomerEmail)
	if err != nil {
		return notFound(err, "No user found for checkout")
	}

	booking := &models.Booking{
		TourID:     uint(tourID),
		UserID:     user.ID,
		Price:      float64(completion.AmountTotal) / 100,
		Paid:       true,
		PaymentRef: completion.SessionID,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil
		}
		return err
	}

	s.logger.Info("booking created from checkout",
		zap.Uint("booking_id", booking.ID),
		zap.Uint("tour_id", booking.TourID),
		zap.Uint("user_id", booking.UserID))
	return nil
}

// BuyTour charges a card payment method for the tour price and books it.
func (s *BookingService) BuyTour(ctx context.Context, actor *models.User, tourID uint, req models.CheckoutRequest) (*models.Booking, error) {
	tour, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		return nil, notFound(err, "No tour found with that ID")
	}

	charge, err := s.gateway.Charge(ctx, payment.ChargeRequest{
		AmountCents:   toCents(tour.Price),
		Currency:      s.currency,
		PaymentMethod: req.PaymentMethod,
		Description:   tour.Name,
		CustomerEmail: actor.Email,
		Metadata: map[string]string{
			"tour_id": strconv.FormatUint(uint64(tour.ID), 10),
			"user_id": strconv.FormatUint(uint64(actor.ID), 10),
		},
	})
	if err != nil {
		var decline *payment.DeclineError
		if errors.As(err, &decline) {
			return nil, apperror.Wrap(apperror.ErrPaymentDeclined, "Transaction declined: "+decline.Reason, err)
		}
		return nil, err
	}

	booking := &models.Booking{
		TourID:     tour.ID,
		UserID:     actor.ID,
		Price:      tour.Price,
		Paid:       true,
		PaymentRef: charge.ID,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		s.logger.Error("charge succeeded but booking failed",
			zap.String("payment_ref", charge.ID),
			zap.Uint("tour_id", tour.ID),
			zap.Error(err))
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) List(ctx context.Context) ([]models.Booking, error) {
	return s.bookings.List(ctx)
}

func (s *BookingService) Get(ctx context.Context, id uint) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "No booking found with that ID")
	}
	return booking, nil
}

func (s *BookingService) Create(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	if _, err := s.tours.GetByID(ctx, req.TourID); err != nil {
		return nil, notFound(err, "No tour found with that ID")
	}
	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return nil, notFound(err, "No user found with that ID")
	}

	booking := &models.Booking{
		TourID:     req.TourID,
		UserID:     req.UserID,
		Price:      req.Price,
		Paid:       true,
		PaymentRef: req.PaymentRef,
	}
	if req.Paid != nil {
		booking.Paid = *req.Paid
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.New(apperror.ErrConflict, "A booking with that payment reference already exists")
		}
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) Update(ctx context.Context, id uint, req models.UpdateBookingRequest) (*models.Booking, error) {
	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Price != nil {
		booking.Price = *req.Price
	}
	if req.Paid != nil {
		booking.Paid = *req.Paid
	}
	booking.Tour = nil
	booking.User = nil

	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) Delete(ctx context.Context, id uint) error {
	return notFound(s.bookings.Delete(ctx, id), "No booking found with that ID")
}
