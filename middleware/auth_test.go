package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"esports-community-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	user *services.AuthUser
	err  error
}

func (s *stubProvider) CreateUser(email, password string, meta services.UserMetadata) (*services.AuthUser, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProvider) GetUser(accessToken string) (*services.AuthUser, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubProvider) DeleteUser(userID string) error { return nil }

func newTestApp(provider services.IdentityProvider) *fiber.App {
	app := fiber.New()
	app.Get("/whoami", UserContextMiddleware(provider), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"userId":  c.Locals("user_id"),
			"email":   c.Locals("user_email"),
			"isAdmin": c.Locals("is_admin"),
		})
	})
	return app
}

func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestUserContextMissingHeader(t *testing.T) {
	app := newTestApp(&stubProvider{})

	req := httptest.NewRequest("GET", "/whoami", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, "Unauthorized - no access token provided", body["error"])
}

func TestUserContextMalformedHeader(t *testing.T) {
	app := newTestApp(&stubProvider{})

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, "Unauthorized - no access token provided", body["error"])
}

func TestUserContextRejectedToken(t *testing.T) {
	app := newTestApp(&stubProvider{err: services.ErrUnauthorized})

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, "Unauthorized - invalid access token", body["error"])
}

func TestUserContextAttachesIdentity(t *testing.T) {
	app := newTestApp(&stubProvider{user: &services.AuthUser{
		ID:      "user-1",
		Email:   "amina@example.com",
		IsAdmin: true,
	}})

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, "user-1", body["userId"])
	assert.Equal(t, "amina@example.com", body["email"])
	assert.Equal(t, true, body["isAdmin"])
}

func TestAdminOnlyMetadataAdmin(t *testing.T) {
	// is_admin from the auth service short-circuits before any DB read, so a
	// nil DB is safe here.
	app := fiber.New()
	app.Get("/admin/ping",
		func(c *fiber.Ctx) error {
			c.Locals("user_id", "user-1")
			c.Locals("is_admin", true)
			return c.Next()
		},
		AdminOnlyMiddleware(nil),
		func(c *fiber.Ctx) error { return c.SendString("pong") },
	)

	req := httptest.NewRequest("GET", "/admin/ping", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
