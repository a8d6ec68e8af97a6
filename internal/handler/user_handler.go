package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/natours/natours-backend/internal/controller"
	"github.com/natours/natours-backend/internal/middleware"
	"github.com/natours/natours-backend/internal/models"
	"github.com/natours/natours-backend/pkg/utils"
)

type UserHandler struct {
	userController *controller.UserController
	validator      *utils.Validator
}

func NewUserHandler(userController *controller.UserController, validator *utils.Validator) *UserHandler {
	return &UserHandler{
		userController: userController,
		validator:      validator,
	}
}

func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	me, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}

	user, err := h.userController.GetUserByID(c.UserContext(), me.ID)
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse(user, ""))
}

func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	me, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}

	var req models.UpdateMeRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	user, err := h.userController.UpdateMe(c.UserContext(), me, req)
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse(user, "Profile updated"))
}

func (h *UserHandler) DeleteMe(c *fiber.Ctx) error {
	me, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}

	if err := h.userController.DeleteMe(c.UserContext(), me); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserHandler) MyTours(c *fiber.Ctx) error {
	me, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}

	tours, err := h.userController.MyTours(c.UserContext(), me)
	if err != nil {
		return err
	}
	return c.JSON(models.ListResponse(tours, len(tours)))
}

func (h *UserHandler) GetAllUsers(c *fiber.Ctx) error {
	users, err := h.userController.GetAllUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(models.ListResponse(users, len(users)))
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userController.GetUserByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse(user, ""))
}

func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateUserRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	user, err := h.userController.UpdateUser(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse(user, "User updated"))
}

func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.userController.DeleteUser(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
