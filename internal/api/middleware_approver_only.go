package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ApproverOnly(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	if !user.IsApprover() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "approver access required"})
	}
	return c.Next()
}
