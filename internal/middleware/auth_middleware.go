package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/natours/natours-backend/internal/apperror"
	"github.com/natours/natours-backend/internal/models"
	"github.com/natours/natours-backend/internal/service"
)

const (
	SessionCookie = "jwt"
	userLocalsKey = "user"
)

type userContextKey struct{}

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Protect admits requests carrying a valid session, from the Authorization
// header or the jwt cookie, and attaches the user to the request.
func Protect(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.Authenticate(c.UserContext(), tokenFromRequest(c))
		if err != nil {
			return err
		}

		c.Locals(userLocalsKey, user)
		c.SetUserContext(context.WithValue(c.UserContext(), userContextKey{}, user))
		return c.Next()
	}
}

// RestrictTo must run after Protect.
func RestrictTo(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := service.Authorize(CurrentUser(c), roles...); err != nil {
			return err
		}
		return c.Next()
	}
}

func tokenFromRequest(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return c.Cookies(SessionCookie)
}

// CurrentUser returns the user Protect attached, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalsKey).(*models.User)
	return user
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*models.User)
	return user, ok
}

// RequireUser is CurrentUser for handlers mounted behind Protect.
func RequireUser(c *fiber.Ctx) (*models.User, error) {
	user := CurrentUser(c)
	if user == nil {
		return nil, apperror.New(apperror.ErrUnauthenticated, "You are not logged in! Please log in to get access.")
	}
	return user, nil
}
