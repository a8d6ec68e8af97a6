package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/natours/natours-backend/internal/controller"
	"github.com/natours/natours-backend/internal/middleware"
	"github.com/natours/natours-backend/internal/models"
	"github.com/natours/natours-backend/pkg/utils"
)

const loggedOutValue = "loggedout"

type AuthHandler struct {
	authController *controller.AuthController
	validator      *utils.Validator
	cookieTTL      time.Duration
}

func NewAuthHandler(authController *controller.AuthController, validator *utils.Validator, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authController: authController,
		validator:      validator,
		cookieTTL:      cookieTTL,
	}
}

// sendSession sets the jwt cookie and returns token and user in the body.
func (h *AuthHandler) sendSession(c *fiber.Ctx, session *models.AuthResponse, message string) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Expires:  time.Now().Add(h.cookieTTL),
		HTTPOnly: true,
		Secure:   isSecure(c),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(models.SuccessResponse(session, message))
}

func isSecure(c *fiber.Ctx) bool {
	return c.Secure() || c.Get(fiber.HeaderXForwardedProto) == "https"
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req models.SignupRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	user, err := h.authController.Signup(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.JSON(models.SuccessResponse(fiber.Map{"user": user}, "Email of authentication sent!"))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := bind(c, nil, &req); err != nil {
		return err
	}

	result, err := h.authController.Login(c.UserContext(), req)
	if err != nil {
		return err
	}

	if result.VerificationPending {
		return c.JSON(models.SuccessResponse(nil, "checking email"))
	}
	return h.sendSession(c, result.Session, "Login successful")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    loggedOutValue,
		Expires:  time.Now().Add(10 * time.Second),
		HTTPOnly: true,
	})
	return c.JSON(models.SuccessResponse(nil, ""))
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req models.ForgotPasswordRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	if err := h.authController.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}

	return c.JSON(models.SuccessResponse(nil, "Temp password sent to email!"))
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req models.ResetPasswordRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	session, err := h.authController.ResetPassword(c.UserContext(), c.Params("token"), req)
	if err != nil {
		return err
	}
	return h.sendSession(c, session, "Password reset successful")
}

func (h *AuthHandler) UpdateMyPassword(c *fiber.Ctx) error {
	user, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}

	var req models.UpdatePasswordRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	session, err := h.authController.UpdateMyPassword(c.UserContext(), user, req)
	if err != nil {
		return err
	}
	return h.sendSession(c, session, "Password updated")
}

func (h *AuthHandler) CheckEmail(c *fiber.Ctx) error {
	session, err := h.authController.VerifyEmail(c.UserContext(), c.Params("token"))
	if err != nil {
		return err
	}
	return h.sendSession(c, session, "Email verified")
}

// GetUserByToken returns the user behind the current session.
func (h *AuthHandler) GetUserByToken(c *fiber.Ctx) error {
	user, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse(fiber.Map{"user": user}, ""))
}
