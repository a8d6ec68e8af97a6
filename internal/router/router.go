package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/natours/natours-backend/internal/handler"
	"github.com/natours/natours-backend/internal/middleware"
	"github.com/natours/natours-backend/internal/models"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Tour    *handler.TourHandler
	Review  *handler.ReviewHandler
	Booking *handler.BookingHandler
}

// Setup mounts the API. apiMiddleware (rate limiting and the like) applies
// to /api only; the Stripe webhook sits outside it.
func Setup(app *fiber.App, h Handlers, auth middleware.Authenticator, apiMiddleware ...fiber.Handler) {
	protect := middleware.Protect(auth)
	restrictTo := middleware.RestrictTo

	app.Post("/webhook-checkout", h.Booking.WebhookCheckout)

	api := app.Group("/api")
	for _, mw := range apiMiddleware {
		api.Use(mw)
	}
	v1 := api.Group("/v1")

	// Users and authentication
	users := v1.Group("/users")
	users.Post("/signup", h.Auth.Signup)
	users.Post("/login", h.Auth.Login)
	users.Get("/logout", h.Auth.Logout)
	users.Post("/forgotPassword", h.Auth.ForgotPassword)
	users.Patch("/resetPassword/:token", h.Auth.ResetPassword)
	users.Patch("/checkEmail/:token", h.Auth.CheckEmail)
	users.Get("/getUserByToken", protect, h.Auth.GetUserByToken)

	users.Patch("/updateMyPassword", protect, h.Auth.UpdateMyPassword)
	users.Get("/me", protect, h.User.GetMe)
	users.Patch("/updateMe", protect, h.User.UpdateMe)
	users.Delete("/deleteMe", protect, h.User.DeleteMe)
	users.Get("/myTours", protect, h.User.MyTours)

	admin := restrictTo(models.RoleAdmin)
	users.Get("/", protect, admin, h.User.GetAllUsers)
	users.Get("/:id", protect, admin, h.User.GetUser)
	users.Patch("/:id", protect, admin, h.User.UpdateUser)
	users.Delete("/:id", protect, admin, h.User.DeleteUser)

	// Tours
	tourStaff := restrictTo(models.RoleAdmin, models.RoleLeadGuide)
	tours := v1.Group("/tours")
	tours.Get("/top-5-cheap", h.Tour.TopCheap)
	tours.Get("/tour-stats", h.Tour.GetTourStats)
	tours.Get("/monthly-plan/:year", protect, restrictTo(models.RoleAdmin, models.RoleLeadGuide, models.RoleUser), h.Tour.GetMonthlyPlan)
	tours.Get("/tours-within/:distance/center/:latlng/unit/:unit", h.Tour.GetToursWithin)
	tours.Get("/distances/:latlng/unit/:unit", h.Tour.GetDistances)
	tours.Get("/", h.Tour.GetAllTours)
	tours.Post("/", protect, tourStaff, h.Tour.CreateTour)
	tours.Get("/:id", h.Tour.GetTour)
	tours.Patch("/:id", protect, tourStaff, h.Tour.UpdateTour)
	tours.Delete("/:id", protect, tourStaff, h.Tour.DeleteTour)

	// Reviews, top level and nested under a tour
	reviewer := restrictTo(models.RoleUser)
	reviewEditor := restrictTo(models.RoleUser, models.RoleAdmin)

	tours.Get("/:tourId/reviews", protect, h.Review.GetAllReviews)
	tours.Post("/:tourId/reviews", protect, reviewer, h.Review.CreateReview)

	reviews := v1.Group("/reviews", protect)
	reviews.Get("/", h.Review.GetAllReviews)
	reviews.Post("/", reviewer, h.Review.CreateReview)
	reviews.Get("/:id", h.Review.GetReview)
	reviews.Patch("/:id", reviewEditor, h.Review.UpdateReview)
	reviews.Delete("/:id", reviewEditor, h.Review.DeleteReview)

	// Bookings
	bookings := v1.Group("/bookings", protect)
	bookings.Get("/checkout-session/:tourId", h.Booking.GetCheckoutSession)
	bookings.Get("/", tourStaff, h.Booking.GetAllBookings)
	bookings.Post("/", tourStaff, h.Booking.CreateBooking)
	bookings.Get("/:id", tourStaff, h.Booking.GetBooking)
	bookings.Patch("/:id", tourStaff, h.Booking.UpdateBooking)
	bookings.Delete("/:id", tourStaff, h.Booking.DeleteBooking)

	// Direct card checkout
	v1.Post("/checkout/:tourId", protect, reviewer, h.Booking.BuyTour)

	app.Use(handler.NotFound)
}
