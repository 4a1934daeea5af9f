package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/taskshare/backend/internal/services"
	"github.com/taskshare/backend/pkg/utils"
)

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(value))
}

func getRequestID(c *fiber.Ctx) string {
	if value, ok := c.Locals("requestID").(string); ok {
		return value
	}
	return ""
}

// serviceError maps the typed outcomes of the access policy and grant
// lifecycle onto status codes. Anything unrecognized is a storage
// failure and surfaces as 500.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrObjectiveNotFound):
		return utils.Error(c, fiber.StatusNotFound, "objective not found")
	case errors.Is(err, services.ErrUserNotFound):
		return utils.Error(c, fiber.StatusNotFound, "target user not found")
	case errors.Is(err, services.ErrAccessDenied):
		return utils.Error(c, fiber.StatusForbidden, "access denied")
	default:
		return utils.Error(c, fiber.StatusInternalServerError, "internal error")
	}
}
