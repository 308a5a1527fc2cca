package handlers

import "github.com/gofiber/fiber/v2"

// insufficientTokens writes the typed insufficient-balance response. The
// dedicated flag lets clients redirect straight to the top-up flow instead of
// showing a generic failure.
func insufficientTokens(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
		"success":             false,
		"error":               message,
		"insufficient_tokens": true,
	})
}
