package controller

import (
	"context"

	"github.com/natours/natours-backend/internal/models"
	"github.com/natours/natours-backend/internal/service"
)

type UserController struct {
	userService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

func (c *UserController) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return c.userService.GetUserByID(ctx, id)
}

func (c *UserController) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return c.userService.List(ctx)
}

func (c *UserController) UpdateMe(ctx context.Context, actor *models.User, req models.UpdateMeRequest) (*models.User, error) {
	return c.userService.UpdateMe(ctx, actor, req)
}

func (c *UserController) DeleteMe(ctx context.Context, actor *models.User) error {
	return c.userService.DeleteMe(ctx, actor)
}

func (c *UserController) MyTours(ctx context.Context, actor *models.User) ([]models.Tour, error) {
	return c.userService.MyTours(ctx, actor)
}

func (c *UserController) UpdateUser(ctx context.Context, id uint, req models.UpdateUserRequest) (*models.User, error) {
	return c.userService.Update(ctx, id, req)
}

func (c *UserController) DeleteUser(ctx context.Context, id uint) error {
	return c.userService.Delete(ctx, id)
}
