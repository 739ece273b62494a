package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/oakhollow/spotlight/internal/models"
)

const (
	authCookieName = "spotlight_auth"
	contextUserKey = "current_user"
)

// currentUser reads the request's resolved user from Fiber locals. The role
// always travels with the request context, never through process globals.
func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}
