package controller

import (
	"context"

	"github.com/natours/natours-backend/internal/models"
	"github.com/natours/natours-backend/internal/service"
)

type BookingController struct {
	bookingService *service.BookingService
}

func NewBookingController(bookingService *service.BookingService) *BookingController {
	return &BookingController{
		bookingService: bookingService,
	}
}

func (c *BookingController) CreateCheckoutSession(ctx context.Context, actor *models.User, tourID uint) (*models.CheckoutSession, error) {
	return c.bookingService.CreateCheckoutSession(ctx, actor, tourID)
}

func (c *BookingController) HandleCheckoutWebhook(ctx context.Context, payload []byte, signature string) error {
	return c.bookingService.HandleCheckoutWebhook(ctx, payload, signature)
}

func (c *BookingController) BuyTour(ctx context.Context, actor *models.User, tourID uint, req models.CheckoutRequest) (*models.Booking, error) {
	return c.bookingService.BuyTour(ctx, actor, tourID, req)
}

func (c *BookingController) GetAllBookings(ctx context.Context) ([]models.Booking, error) {
	return c.bookingService.List(ctx)
}

func (c *BookingController) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	return c.bookingService.Get(ctx, id)
}

func (c *BookingController) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	return c.bookingService.Create(ctx, req)
}

func (c *BookingController) UpdateBooking(ctx context.Context, id uint, req models.UpdateBookingRequest) (*models.Booking, error) {
	return c.bookingService.Update(ctx, id, req)
}

func (c *BookingController) DeleteBooking(ctx context.Context, id uint) error {
	return c.bookingService.Delete(ctx, id)
}
