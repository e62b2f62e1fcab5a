package serverutils

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// TokenBlacklist answers whether a bearer token has been revoked (logout).
type TokenBlacklist interface {
	IsBlacklisted(ctx context.Context, userID, token string) (bool, error)
}

// NewJwtMiddleware returns the bearer-token guard with revocation checks.
// The secret must be the same one the auth service signs with. Revoked
// tokens fail with 401 exactly like invalid ones.
func NewJwtMiddleware(secret string, blacklist TokenBlacklist) fiber.Handler {
	key := []byte(secret)

	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
		}
		tokenStr := authHeader[7:]

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return key, nil
		})

		if err != nil || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid claims"})
		}

		userID, _ := claims["user_id"].(string)
		if blacklist != nil {
			revoked, err := blacklist.IsBlacklisted(ctx.UserContext(), userID, tokenStr)
			if err == nil && revoked {
				return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token revoked"})
			}
		}

		ctx.Locals("user_id", claims["user_id"])
		ctx.Locals("token", tokenStr)
		return ctx.Next()
	}
}
