package handlers

import "github.com/gofiber/fiber/v2"

// respond writes the uniform response envelope used across the API.
func respond(c *fiber.Ctx, code int, message string, data any) error {
	status := "success"
	if code < 200 || code >= 300 {
		status = "error"
	}
	if data == nil {
		data = fiber.Map{}
	}
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  status,
		"message": message,
		"data":    data,
	})
}
