package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/natours/natours-backend/internal/apperror"
	"github.com/natours/natours-backend/pkg/utils"
)

// bind parses the JSON body into req and validates it.
func bind(c *fiber.Ctx, v *utils.Validator, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return apperror.Wrap(apperror.ErrBadRequest, "Invalid request body", err)
	}
	if v == nil {
		return nil
	}
	if err := v.Struct(req); err != nil {
		return apperror.Wrap(apperror.ErrBadRequest, utils.Describe(err), err)
	}
	return nil
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.New(apperror.ErrBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}
