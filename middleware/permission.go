package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/alexvillacis/instituciones-app/db"
	"github.com/alexvillacis/instituciones-app/models"
)

// RequirePermission checks that the user's role holds the permission for the
// given (route, verb) pair. Permissions are re-fetched per request; the
// store is the only source of truth.
func RequirePermission(name string, method string) fiber.Handler {
	method = strings.ToLower(method)
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userID").(uint)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		var user models.User
		if err := db.DB.Preload("Role.Permissions").First(&user, userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not found",
			})
		}

		for _, permission := range user.Role.Permissions {
			if permission.Name == name && permission.Method == method {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have permission to perform this action",
		})
	}
}

// RequireRole checks if the user has the required role
func RequireRole(roleName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok || role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		if role != roleName {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You don't have the required role to perform this action",
			})
		}

		return c.Next()
	}
}
