package handlers

import (
	"errors"

	"github.com/facultystream/portal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// requestClaims pulls the authenticated user's id, role and display name
// out of the JWT the Protected middleware stored on the context.
func requestClaims(c *fiber.Ctx) (uuid.UUID, string, string) {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	role, _ := claims["role"].(string)
	name, _ := claims["name"].(string)
	return userID, role, name
}

// serviceError maps the domain error taxonomy onto HTTP responses.
func serviceError(c *fiber.Ctx, err error) error {
	var validation *services.ValidationError
	if errors.As(err, &validation) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validation.Message})
	}
	var conflict *services.ConflictError
	if errors.As(err, &conflict) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": conflict.Message})
	}
	var notFound *services.NotFoundError
	if errors.As(err, &notFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFound.Error()})
	}
	var unavailable *services.SlotUnavailableError
	if errors.As(err, &unavailable) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": unavailable.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong, please try again."})
}
