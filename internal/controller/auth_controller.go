package controller

import (
	"context"

	"github.com/natours/natours-backend/internal/models"
	"github.com/natours/natours-backend/internal/service"
)

type AuthController struct {
	authService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

func (c *AuthController) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	return c.authService.Signup(ctx, req)
}

func (c *AuthController) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	return c.authService.Login(ctx, req)
}

func (c *AuthController) ForgotPassword(ctx context.Context, email string) error {
	return c.authService.ForgotPassword(ctx, email)
}

func (c *AuthController) ResetPassword(ctx context.Context, token string, req models.ResetPasswordRequest) (*models.AuthResponse, error) {
	return c.authService.ResetPassword(ctx, token, req)
}

func (c *AuthController) UpdateMyPassword(ctx context.Context, actor *models.User, req models.UpdatePasswordRequest) (*models.AuthResponse, error) {
	return c.authService.UpdateMyPassword(ctx, actor, req)
}

func (c *AuthController) VerifyEmail(ctx context.Context, token string) (*models.AuthResponse, error) {
	return c.authService.VerifyEmail(ctx, token)
}

func (c *AuthController) Authenticate(ctx context.Context, token string) (*models.User, error) {
	return c.authService.Authenticate(ctx, token)
}
