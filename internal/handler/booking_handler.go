package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/natours/natours-backend/internal/controller"
	"github.com/natours/natours-backend/internal/middleware"
	"github.com/natours/natours-backend/internal/models"
	"github.com/natours/natours-backend/pkg/utils"
)

type BookingHandler struct {
	bookingController *controller.BookingController
	validator         *utils.Validator
}

func NewBookingHandler(bookingController *controller.BookingController, validator *utils.Validator) *BookingHandler {
	return &BookingHandler{
		bookingController: bookingController,
		validator:         validator,
	}
}

func (h *BookingHandler) GetCheckoutSession(c *fiber.Ctx) error {
	me, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	tourID, err := paramID(c, "tourId")
	if err != nil {
		return err
	}

	session, err := h.bookingController.CreateCheckoutSession(c.UserContext(), me, tourID)
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse(fiber.Map{"session": session}, ""))
}

// WebhookCheckout receives Stripe events. The raw body is needed for the
// signature check, so it must not be parsed before this handler.
func (h *BookingHandler) WebhookCheckout(c *fiber.Ctx) error {
	err := h.bookingController.HandleCheckoutWebhook(c.UserContext(), c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"received": true})
}

// BuyTour charges a card payment method and books the tour in one call.
func (h *BookingHandler) BuyTour(c *fiber.Ctx) error {
	me, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	tourID, err := paramID(c, "tourId")
	if err != nil {
		return err
	}

	var req models.CheckoutRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	booking, err := h.bookingController.BuyTour(c.UserContext(), me, tourID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(booking, "Tour booked"))
}

func (h *BookingHandler) GetAllBookings(c *fiber.Ctx) error {
	bookings, err := h.bookingController.GetAllBookings(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(models.ListResponse(bookings, len(bookings)))
}

func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	booking, err := h.bookingController.GetBooking(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse(booking, ""))
}

func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	var req models.BookingRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	booking, err := h.bookingController.CreateBooking(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(booking, "Booking created"))
}

func (h *BookingHandler) UpdateBooking(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateBookingRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	booking, err := h.bookingController.UpdateBooking(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse(booking, "Booking updated"))
}

func (h *BookingHandler) DeleteBooking(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.bookingController.DeleteBooking(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
