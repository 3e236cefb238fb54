// esports-community-system/middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"esports-community-system/models"
	"esports-community-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserContextMiddleware resolves the Authorization bearer token through the
// auth service and attaches the caller's identity to the request context.
func UserContextMiddleware(provider services.IdentityProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized - no access token provided",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized - no access token provided",
			})
		}

		user, err := provider.GetUser(token)
		if err != nil {
			log.Printf("[USER_CTX] token rejected for %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized - invalid access token",
			})
		}

		c.Locals("user_id", user.ID)
		c.Locals("user_email", user.Email)
		c.Locals("is_admin", user.IsAdmin)

		return c.Next()
	}
}

// AdminOnlyMiddleware gates the /admin routes. A caller is an admin when the
// auth service metadata says so OR the stored profile role is "admin". The
// check is read-only; role reconciliation happens in the profile handler, not
// here.
func AdminOnlyMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isAdmin, _ := c.Locals("is_admin").(bool); isAdmin {
			return c.Next()
		}

		userID, _ := c.Locals("user_id").(string)
		if userID != "" {
			var profile models.UserProfile
			err := db.Select("role").First(&profile, "id = ?", userID).Error
			if err == nil && profile.Role == "admin" {
				return c.Next()
			}
		}

		log.Printf("[ADMIN] access denied for user %s on %s", userID, c.Path())
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Admin access required",
		})
	}
}
