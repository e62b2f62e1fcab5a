package serverutils

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware recovers panics and normalizes unhandled errors
// into the standard response envelope. Handlers that already wrote a
// response are left alone.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				_ = ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"code":    fiber.StatusInternalServerError,
					"message": "Internal server error",
				})
			}
		}()

		if err := ctx.Next(); err != nil {
			code := fiber.StatusInternalServerError
			message := "Internal server error"
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
				message = fe.Message
			}
			return ctx.Status(code).JSON(fiber.Map{
				"success": false,
				"code":    code,
				"message": message,
			})
		}
		return nil
	}
}
