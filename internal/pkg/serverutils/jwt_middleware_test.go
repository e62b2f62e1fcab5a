package serverutils

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

// fakeBlacklist mirrors the Redis repository: one revoked token per user.
type fakeBlacklist struct {
	revoked map[string]string
}

func (f *fakeBlacklist) IsBlacklisted(_ context.Context, userID, token string) (bool, error) {
	return f.revoked[userID] == token, nil
}

func signTestToken(t *testing.T, secret, userID string, ttl time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    "user",
		"exp":     time.Now().Add(ttl).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newGuardedApp(blacklist TokenBlacklist) *fiber.App {
	app := fiber.New()
	app.Get("/guarded", NewJwtMiddleware(testSecret, blacklist), func(ctx *fiber.Ctx) error {
		userId, _ := ctx.Locals("user_id").(string)
		return ctx.SendString(userId)
	})
	return app
}

func TestJwtMiddlewareAcceptsValidToken(t *testing.T) {
	app := newGuardedApp(&fakeBlacklist{revoked: map[string]string{}})
	token := signTestToken(t, testSecret, "user-1", 30*time.Minute)

	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJwtMiddlewareBlacklistRoundTrip(t *testing.T) {
	blacklist := &fakeBlacklist{revoked: map[string]string{}}
	app := newGuardedApp(blacklist)

	first := signTestToken(t, testSecret, "user-1", 30*time.Minute)

	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+first)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Logout revokes the token; the same request must now fail.
	blacklist.revoked["user-1"] = first

	req = httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+first)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// A freshly issued token for the same user is still good.
	second := signTestToken(t, testSecret, "user-1", time.Hour)
	require.NotEqual(t, first, second)

	req = httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+second)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJwtMiddlewareRejectsWrongSecret(t *testing.T) {
	app := newGuardedApp(nil)
	token := signTestToken(t, "some-other-secret", "user-1", 30*time.Minute)

	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJwtMiddlewareRejectsMissingToken(t *testing.T) {
	app := newGuardedApp(nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
